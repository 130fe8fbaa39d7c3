package inbound

import (
	"fmt"
	"time"
)

// DefaultCategory is assigned when the wire record carries no category
const DefaultCategory = "Other"

/* TransactionRecord is the wire shape of one transaction inside a
 * TRANSACTIONS event; field names are the aggregator's contract
 */
type TransactionRecord struct {
	AccountID       string   `json:"account_id"`
	Amount          float64  `json:"amount"`
	MerchantName    string   `json:"merchant_name,omitempty"`
	Category        []string `json:"category,omitempty"`
	Date            string   `json:"date"`
	TransactionID   string   `json:"transaction_id"`
	Pending         *bool    `json:"pending,omitempty"`
	PaymentChannel  string   `json:"payment_channel,omitempty"`
	TransactionType string   `json:"transaction_type,omitempty"`
}

// Validate checks the required fields of a wire record
func (r TransactionRecord) Validate() error {
	if r.AccountID == "" {
		return fmt.Errorf("account_id cannot be empty")
	}
	if r.TransactionID == "" {
		return fmt.Errorf("transaction_id cannot be empty")
	}
	if r.Date == "" {
		return fmt.Errorf("date cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("date must be an ISO date: %w", err)
	}
	return nil
}

/* Transaction is the normalized shape handed to the ingestion
 * collaborator: category collapsed to a single label defaulting to
 * "Other", pending coerced to a plain bool
 */
type Transaction struct {
	AccountID      string
	Amount         float64
	Date           string
	TransactionID  string
	MerchantName   string
	Category       string
	Pending        bool
	PaymentChannel string
	Type           string
}

// Normalize converts a wire record into the ingestion shape
func (r TransactionRecord) Normalize() Transaction {
	category := DefaultCategory
	if len(r.Category) > 0 && r.Category[0] != "" {
		category = r.Category[0]
	}

	pending := false
	if r.Pending != nil {
		pending = *r.Pending
	}

	return Transaction{
		AccountID:      r.AccountID,
		Amount:         r.Amount,
		Date:           r.Date,
		TransactionID:  r.TransactionID,
		MerchantName:   r.MerchantName,
		Category:       category,
		Pending:        pending,
		PaymentChannel: r.PaymentChannel,
		Type:           r.TransactionType,
	}
}
