package inbound

import (
	"encoding/json"
	"fmt"
)

/* Envelope is the parsed, type-discriminated representation of one
 * inbound webhook payload
 * Constructed per call and discarded after routing; nothing in this
 * package persists it
 */
type Envelope struct {
	RawBytes         []byte
	ClaimedSignature string
	Verified         bool
	EventType        EventType

	WebhookType         string
	WebhookCode         string
	ItemID              string
	NewTransactions     int
	RemovedTransactions []string
	Transactions        []TransactionRecord
	Error               *EventError
}

// EventError is the aggregator-reported error attached to some events
type EventError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// envelopeWire is the JSON shape of an inbound event; field names are the wire contract
type envelopeWire struct {
	WebhookType         string              `json:"webhook_type"`
	WebhookCode         string              `json:"webhook_code"`
	ItemID              string              `json:"item_id"`
	NewTransactions     int                 `json:"new_transactions,omitempty"`
	RemovedTransactions []string            `json:"removed_transactions,omitempty"`
	Transactions        []TransactionRecord `json:"transactions,omitempty"`
	Error               *EventError         `json:"error,omitempty"`
}

/* ParseEnvelope validates raw bytes against the discriminated union of
 * known event shapes
 * Every variant requires the webhook_type/webhook_code pair and an item
 * identifier; a document missing any of them matches no variant
 */
func ParseEnvelope(raw []byte) (Envelope, error) {
	var wire envelopeWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Envelope{}, &SchemaError{Reason: fmt.Sprintf("parsing payload: %v", err)}
	}

	if wire.WebhookType == "" {
		return Envelope{}, &SchemaError{Reason: "webhook_type is required"}
	}
	if wire.WebhookCode == "" {
		return Envelope{}, &SchemaError{Reason: "webhook_code is required"}
	}
	if wire.ItemID == "" {
		return Envelope{}, &SchemaError{Reason: "item_id is required"}
	}

	return Envelope{
		RawBytes:            raw,
		EventType:           NewEventType(wire.WebhookType),
		WebhookType:         wire.WebhookType,
		WebhookCode:         wire.WebhookCode,
		ItemID:              wire.ItemID,
		NewTransactions:     wire.NewTransactions,
		RemovedTransactions: wire.RemovedTransactions,
		Transactions:        wire.Transactions,
		Error:               wire.Error,
	}, nil
}
