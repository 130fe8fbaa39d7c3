package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/finsight/webhooks/inbound"
	"github.com/finsight/webhooks/ledger"
	"github.com/finsight/webhooks/outbound"
)

/* HTTP layer DTOs for the webhook API
 * Separate from domain entities to avoid leaking internal structure
 */

// Inbound senders are webhooks, not uploads; anything bigger is suspect
const maxInboundBodyBytes = 1 << 20

// dispatchRequest represents the outbound delivery order
type dispatchRequest struct {
	URL           string            `json:"url"`
	Method        string            `json:"method,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	Body          json.RawMessage   `json:"body,omitempty"`
	Secret        string            `json:"secret,omitempty"`
	BearerToken   string            `json:"bearer_token,omitempty"`
	BasicUsername string            `json:"basic_username,omitempty"`
	BasicPassword string            `json:"basic_password,omitempty"`
}

// attemptResponse represents one retry iteration in the API
type attemptResponse struct {
	Number     int       `json:"number"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	HTTPStatus *int      `json:"http_status,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
}

// dispatchResponse represents the terminal execution result in the API
type dispatchResponse struct {
	WebhookID       string            `json:"webhook_id"`
	Success         bool              `json:"success"`
	Outcome         string            `json:"outcome"`
	FinalStatus     *int              `json:"final_status,omitempty"`
	Attempts        []attemptResponse `json:"attempts"`
	TotalDurationMs int64             `json:"total_duration_ms"`
}

// inboundResponse describes how an inbound event was routed
type inboundResponse struct {
	EventType             string `json:"event_type"`
	WebhookCode           string `json:"webhook_code"`
	ItemID                string `json:"item_id"`
	State                 string `json:"state"`
	TransactionsProcessed int    `json:"transactions_processed"`
}

// postDispatch handles POST /v1/dispatch
func postDispatch(dispatcher outbound.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dispatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		domainReq := outbound.Request{
			URL:           req.URL,
			Method:        req.Method,
			Headers:       req.Headers,
			Secret:        req.Secret,
			BearerToken:   req.BearerToken,
			BasicUsername: req.BasicUsername,
			BasicPassword: req.BasicPassword,
		}
		if len(req.Body) > 0 {
			domainReq.Body = req.Body
		}

		result, err := dispatcher.Dispatch(r.Context(), domainReq)
		if err != nil {
			var configErr *outbound.ConfigurationError
			var validationErr *outbound.ValidationError
			var failedErr *outbound.DeliveryFailedError
			switch {
			case errors.As(err, &configErr):
				http.Error(w, configErr.Error(), http.StatusServiceUnavailable)
				return
			case errors.As(err, &validationErr):
				http.Error(w, validationErr.Error(), http.StatusBadRequest)
				return
			case errors.As(err, &failedErr):
				// The caller still gets the full attempt history
				writeJSON(w, http.StatusBadGateway, toDispatchResponse(result))
				return
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, http.StatusOK, toDispatchResponse(result))
	})
}

// postInbound handles POST {source.Path} for one configured source
func postInbound(source InboundSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInboundBodyBytes))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		claimedSignature := r.Header.Get(source.SignatureHeader)

		outcome, err := source.Receiver.Receive(r.Context(), body, claimedSignature)
		if err != nil {
			var sigErr *inbound.SignatureError
			var schemaErr *inbound.SchemaError
			switch {
			case errors.As(err, &sigErr):
				http.Error(w, sigErr.Error(), http.StatusUnauthorized)
			case errors.As(err, &schemaErr):
				http.Error(w, schemaErr.Error(), http.StatusBadRequest)
			default:
				// Ingestion hand-off failed; the sender will redeliver
				http.Error(w, err.Error(), http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusAccepted, inboundResponse{
			EventType:             outcome.EventType.String(),
			WebhookCode:           outcome.WebhookCode,
			ItemID:                outcome.ItemID,
			State:                 outcome.State.String(),
			TransactionsProcessed: outcome.TransactionsProcessed,
		})
	})
}

// getStats handles GET /v1/stats
func getStats(stats ledger.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		statistics, err := stats.ComputeStatistics(r.Context())
		if err != nil {
			var obsErr *ledger.ObservabilityError
			if errors.As(err, &obsErr) {
				http.Error(w, obsErr.Error(), http.StatusServiceUnavailable)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, statistics)
	})
}

func toDispatchResponse(result outbound.Result) dispatchResponse {
	attempts := make([]attemptResponse, 0, len(result.Attempts))
	for _, attempt := range result.Attempts {
		attempts = append(attempts, attemptResponse{
			Number:     attempt.Number,
			StartedAt:  attempt.StartedAt,
			DurationMs: attempt.Duration.Milliseconds(),
			HTTPStatus: attempt.HTTPStatus,
			ErrorKind:  string(attempt.ErrorKind),
		})
	}

	return dispatchResponse{
		WebhookID:       result.WebhookID,
		Success:         result.Success,
		Outcome:         result.Outcome.String(),
		FinalStatus:     result.FinalStatus,
		Attempts:        attempts,
		TotalDurationMs: result.TotalDuration.Milliseconds(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
