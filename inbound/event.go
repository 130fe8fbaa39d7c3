package inbound

import (
	"fmt"
	"strings"
)

/* EventType discriminates the known inbound event families
 * Unknown is not an error: new families from the aggregator must be
 * acknowledged and ignored, never rejected
 */
type EventType int

const (
	Transactions EventType = iota + 1
	Item
	Account
	Unknown
)

// String returns the string representation of the event type
func (e EventType) String() string {
	switch e {
	case Transactions:
		return "transactions"
	case Item:
		return "item"
	case Account:
		return "account"
	default:
		return "unknown"
	}
}

// NewEventType maps a wire webhook_type string to an event family
func NewEventType(webhookType string) EventType {
	switch strings.ToUpper(strings.TrimSpace(webhookType)) {
	case "TRANSACTIONS":
		return Transactions
	case "ITEM":
		return Item
	case "ACCOUNT", "ACCOUNTS":
		return Account
	default:
		return Unknown
	}
}

// Validate checks if the event type is valid
func (e EventType) Validate() error {
	if e < Transactions || e > Unknown {
		return fmt.Errorf("invalid event type: %d", e)
	}
	return nil
}
