package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/finsight/webhooks/inbound"
	"github.com/finsight/webhooks/ledger"
	"github.com/finsight/webhooks/outbound"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

/* InboundSource binds one configured external sender to its receiver
 * Each source gets its own POST endpoint and signature header
 */
type InboundSource struct {
	Name            string
	Path            string
	SignatureHeader string
	Receiver        inbound.UseCase
}

// Handlers sets up the webhook API routes
func Handlers(ctx context.Context, dispatcher outbound.UseCase, stats ledger.UseCase, metricsHandler http.Handler, inboundSources []InboundSource) *chi.Mux {
	logger := httplog.NewLogger("finsight-webhooks", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Webhook API routes
	r.Route("/v1", func(r chi.Router) {
		// Execute an outbound delivery
		r.Post("/dispatch", postDispatch(dispatcher).ServeHTTP)

		// Delivery statistics derived from the execution log
		r.Get("/stats", getStats(stats).ServeHTTP)
	})

	// One endpoint per configured inbound source
	for _, source := range inboundSources {
		r.Post(source.Path, postInbound(source).ServeHTTP)
	}

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
