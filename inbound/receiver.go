package inbound

import (
	"context"
	"fmt"

	"github.com/finsight/webhooks/execlog"
	"github.com/finsight/webhooks/signature"
)

/* Receiver authenticates, validates and routes inbound webhook events
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the business operation for inbound processing
type UseCase interface {
	Receive(ctx context.Context, rawBytes []byte, claimedSignature string) (Outcome, error)
}

/* TransactionIngester is the downstream ingestion collaborator
 * The receiver hands it the normalized records and awaits only the
 * submission acknowledgment; persistence is not this package's concern
 */
type TransactionIngester interface {
	IngestTransactions(ctx context.Context, itemID string, txns []Transaction) error
}

type Receiver struct {
	secret   string // empty means the source is unverified
	ingester TransactionIngester
	sink     execlog.Sink
}

// NewReceiver creates a new receiver with dependency injection
func NewReceiver(secret string, ingester TransactionIngester, sink execlog.Sink) *Receiver {
	return &Receiver{
		secret:   secret,
		ingester: ingester,
		sink:     sink,
	}
}

/* Receive processes one inbound event
 * Signature first, against the raw bytes rather than the parsed object,
 * so canonicalization differences can never bypass authentication
 */
func (r *Receiver) Receive(ctx context.Context, rawBytes []byte, claimedSignature string) (Outcome, error) {
	envelope, err := r.authenticate(ctx, rawBytes, claimedSignature)
	if err != nil {
		return Outcome{}, err
	}

	switch envelope.EventType {
	case Transactions:
		return r.handleTransactions(ctx, envelope)
	case Item, Account:
		outcome := Outcome{
			State:       Ignored,
			EventType:   envelope.EventType,
			WebhookCode: envelope.WebhookCode,
			ItemID:      envelope.ItemID,
		}
		// Reserved for future handling
		r.logOutcome(ctx, envelope, outcome)
		return outcome, nil
	default:
		outcome := Outcome{
			State:       Ignored,
			EventType:   Unknown,
			WebhookCode: envelope.WebhookCode,
			ItemID:      envelope.ItemID,
		}
		// Forward compatibility: new event families are acknowledged, not rejected
		r.sink.Log(ctx, execlog.CategoryInbound, map[string]any{
			"event_type":   "unknown-type",
			"webhook_type": envelope.WebhookType,
			"webhook_code": envelope.WebhookCode,
			"item_id":      envelope.ItemID,
			"state":        outcome.State.String(),
		})
		return outcome, nil
	}
}

func (r *Receiver) authenticate(ctx context.Context, rawBytes []byte, claimedSignature string) (Envelope, error) {
	verified := false
	if r.secret != "" {
		if !signature.Verify(rawBytes, claimedSignature, r.secret) {
			sigErr := &SignatureError{Reason: "signature does not match payload"}
			r.sink.LogError(ctx, execlog.CategoryInbound, sigErr, map[string]any{
				"state": Rejected.String(),
			})
			return Envelope{}, sigErr
		}
		verified = true
	}

	envelope, err := ParseEnvelope(rawBytes)
	if err != nil {
		r.sink.LogError(ctx, execlog.CategoryInbound, err, map[string]any{
			"state": Rejected.String(),
		})
		return Envelope{}, err
	}

	envelope.ClaimedSignature = claimedSignature
	envelope.Verified = verified
	return envelope, nil
}

func (r *Receiver) handleTransactions(ctx context.Context, envelope Envelope) (Outcome, error) {
	txns := make([]Transaction, 0, len(envelope.Transactions))
	for i, record := range envelope.Transactions {
		if err := record.Validate(); err != nil {
			schemaErr := &SchemaError{Reason: fmt.Sprintf("transaction %d: %v", i, err)}
			r.logRejected(ctx, envelope, schemaErr)
			return Outcome{}, schemaErr
		}
		txns = append(txns, record.Normalize())
	}

	if len(txns) > 0 {
		if err := r.ingester.IngestTransactions(ctx, envelope.ItemID, txns); err != nil {
			ingestErr := fmt.Errorf("submitting transactions for ingestion: %w", err)
			r.logRejected(ctx, envelope, ingestErr)
			return Outcome{}, ingestErr
		}
	}

	outcome := Outcome{
		State:                 Processed,
		EventType:             Transactions,
		WebhookCode:           envelope.WebhookCode,
		ItemID:                envelope.ItemID,
		TransactionsProcessed: len(txns),
	}
	r.logOutcome(ctx, envelope, outcome)
	return outcome, nil
}

func (r *Receiver) logOutcome(ctx context.Context, envelope Envelope, outcome Outcome) {
	r.sink.Log(ctx, execlog.CategoryInbound, map[string]any{
		"event_type":             outcome.EventType.String(),
		"webhook_code":           envelope.WebhookCode,
		"item_id":                envelope.ItemID,
		"state":                  outcome.State.String(),
		"transactions_processed": outcome.TransactionsProcessed,
	})
}

func (r *Receiver) logRejected(ctx context.Context, envelope Envelope, err error) {
	r.sink.LogError(ctx, execlog.CategoryInbound, err, map[string]any{
		"event_type":   envelope.EventType.String(),
		"webhook_code": envelope.WebhookCode,
		"item_id":      envelope.ItemID,
		"state":        Rejected.String(),
	})
}
