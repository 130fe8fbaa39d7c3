package inbound

import "github.com/stretchr/testify/mock"

// MatchTransactions creates a custom matcher for transaction-list arguments in mocks
func MatchTransactions(matcher func([]Transaction) bool) interface{} {
	return mock.MatchedBy(matcher)
}
