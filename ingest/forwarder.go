package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finsight/webhooks/inbound"
	"github.com/redis/go-redis/v9"
)

/* Redis Streams implementation of inbound.TransactionIngester
 * Normalized transactions are appended to a single stream that the
 * application's ingestion workers consume; this package only submits
 * and acknowledges, it never persists financial records itself
 */

const streamKey = "transactions:ingest"

type RedisForwarder struct {
	client *redis.Client
}

// NewRedisForwarder creates a forwarder on an already connected client
func NewRedisForwarder(client *redis.Client) *RedisForwarder {
	return &RedisForwarder{client: client}
}

// IngestTransactions appends one stream entry per normalized transaction
func (f *RedisForwarder) IngestTransactions(ctx context.Context, itemID string, txns []inbound.Transaction) error {
	for _, txn := range txns {
		record, err := json.Marshal(transactionRecord{
			AccountID:      txn.AccountID,
			Amount:         txn.Amount,
			Date:           txn.Date,
			TransactionID:  txn.TransactionID,
			MerchantName:   txn.MerchantName,
			Category:       txn.Category,
			Pending:        txn.Pending,
			PaymentChannel: txn.PaymentChannel,
			Type:           txn.Type,
		})
		if err != nil {
			return fmt.Errorf("marshaling transaction %s: %w", txn.TransactionID, err)
		}

		err = f.client.XAdd(ctx, &redis.XAddArgs{
			Stream: streamKey,
			Values: map[string]interface{}{
				"item_id":     itemID,
				"transaction": string(record),
			},
		}).Err()
		if err != nil {
			return fmt.Errorf("adding transaction %s to stream: %w", txn.TransactionID, err)
		}
	}

	return nil
}

// transactionRecord is the stream wire shape consumed by ingestion workers
type transactionRecord struct {
	AccountID      string  `json:"account_id"`
	Amount         float64 `json:"amount"`
	Date           string  `json:"date"`
	TransactionID  string  `json:"transaction_id"`
	MerchantName   string  `json:"merchant_name,omitempty"`
	Category       string  `json:"category"`
	Pending        bool    `json:"pending"`
	PaymentChannel string  `json:"payment_channel,omitempty"`
	Type           string  `json:"type,omitempty"`
}
