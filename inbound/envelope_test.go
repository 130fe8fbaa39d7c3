package inbound_test

import (
	"testing"

	"github.com/finsight/webhooks/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	t.Run("success - transactions event", func(t *testing.T) {
		raw := []byte(`{
			"webhook_type": "TRANSACTIONS",
			"webhook_code": "DEFAULT_UPDATE",
			"item_id": "i1",
			"new_transactions": 2,
			"transactions": [
				{"account_id": "a1", "amount": 12.5, "date": "2024-01-01", "transaction_id": "t1"},
				{"account_id": "a1", "amount": -3.2, "date": "2024-01-02", "transaction_id": "t2",
				 "merchant_name": "Cafe", "category": ["Food and Drink"], "pending": true}
			]
		}`)

		envelope, err := inbound.ParseEnvelope(raw)
		require.NoError(t, err)

		assert.Equal(t, inbound.Transactions, envelope.EventType)
		assert.Equal(t, "DEFAULT_UPDATE", envelope.WebhookCode)
		assert.Equal(t, "i1", envelope.ItemID)
		assert.Equal(t, 2, envelope.NewTransactions)
		require.Len(t, envelope.Transactions, 2)
		assert.Equal(t, "Cafe", envelope.Transactions[1].MerchantName)
		require.NotNil(t, envelope.Transactions[1].Pending)
		assert.True(t, *envelope.Transactions[1].Pending)
	})

	t.Run("success - item event", func(t *testing.T) {
		raw := []byte(`{"webhook_type": "ITEM", "webhook_code": "ERROR", "item_id": "i1",
			"error": {"error_type": "ITEM_ERROR", "error_code": "ITEM_LOGIN_REQUIRED", "error_message": "login required"}}`)

		envelope, err := inbound.ParseEnvelope(raw)
		require.NoError(t, err)

		assert.Equal(t, inbound.Item, envelope.EventType)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "ITEM_LOGIN_REQUIRED", envelope.Error.ErrorCode)
	})

	t.Run("success - unrecognized webhook_type maps to Unknown", func(t *testing.T) {
		raw := []byte(`{"webhook_type": "FUTURE_TYPE", "webhook_code": "NEW", "item_id": "i1"}`)

		envelope, err := inbound.ParseEnvelope(raw)
		require.NoError(t, err)
		assert.Equal(t, inbound.Unknown, envelope.EventType)
	})

	t.Run("error - malformed JSON", func(t *testing.T) {
		_, err := inbound.ParseEnvelope([]byte(`{not json`))

		var schemaErr *inbound.SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("error - missing discriminant fields", func(t *testing.T) {
		for _, raw := range []string{
			`{"webhook_code": "X", "item_id": "i1"}`,
			`{"webhook_type": "ITEM", "item_id": "i1"}`,
			`{"webhook_type": "ITEM", "webhook_code": "X"}`,
			`{}`,
		} {
			_, err := inbound.ParseEnvelope([]byte(raw))
			var schemaErr *inbound.SchemaError
			require.ErrorAs(t, err, &schemaErr, raw)
		}
	})
}

func TestNewEventType(t *testing.T) {
	t.Run("known families", func(t *testing.T) {
		assert.Equal(t, inbound.Transactions, inbound.NewEventType("TRANSACTIONS"))
		assert.Equal(t, inbound.Item, inbound.NewEventType("ITEM"))
		assert.Equal(t, inbound.Account, inbound.NewEventType("ACCOUNTS"))
		assert.Equal(t, inbound.Account, inbound.NewEventType("account"))
	})

	t.Run("unknown family", func(t *testing.T) {
		assert.Equal(t, inbound.Unknown, inbound.NewEventType("FUTURE_TYPE"))
		assert.Equal(t, inbound.Unknown, inbound.NewEventType(""))
	})
}

func TestTransactionRecord_Validate(t *testing.T) {
	valid := inbound.TransactionRecord{
		AccountID:     "a1",
		Amount:        12.5,
		Date:          "2024-01-01",
		TransactionID: "t1",
	}

	t.Run("success", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("error - missing account_id", func(t *testing.T) {
		record := valid
		record.AccountID = ""
		require.Error(t, record.Validate())
	})

	t.Run("error - missing transaction_id", func(t *testing.T) {
		record := valid
		record.TransactionID = ""
		require.Error(t, record.Validate())
	})

	t.Run("error - bad date", func(t *testing.T) {
		record := valid
		record.Date = "01/01/2024"
		err := record.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ISO date")
	})
}

func TestTransactionRecord_Normalize(t *testing.T) {
	t.Run("category defaults to Other", func(t *testing.T) {
		record := inbound.TransactionRecord{AccountID: "a1", Amount: 12.5, Date: "2024-01-01", TransactionID: "t1"}
		txn := record.Normalize()

		assert.Equal(t, inbound.DefaultCategory, txn.Category)
		assert.False(t, txn.Pending)
	})

	t.Run("first category wins", func(t *testing.T) {
		record := inbound.TransactionRecord{
			AccountID:     "a1",
			Amount:        -3.2,
			Date:          "2024-01-02",
			TransactionID: "t2",
			Category:      []string{"Food and Drink", "Restaurants"},
		}
		assert.Equal(t, "Food and Drink", record.Normalize().Category)
	})

	t.Run("fields renamed and coerced", func(t *testing.T) {
		pending := true
		record := inbound.TransactionRecord{
			AccountID:       "a1",
			Amount:          7.0,
			Date:            "2024-02-01",
			TransactionID:   "t3",
			MerchantName:    "Grocer",
			Pending:         &pending,
			PaymentChannel:  "in store",
			TransactionType: "place",
		}
		txn := record.Normalize()

		assert.Equal(t, "Grocer", txn.MerchantName)
		assert.True(t, txn.Pending)
		assert.Equal(t, "in store", txn.PaymentChannel)
		assert.Equal(t, "place", txn.Type)
	})
}
