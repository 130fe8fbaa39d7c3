package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/webhooks/config"
	"github.com/finsight/webhooks/execlog"
	execlogredis "github.com/finsight/webhooks/execlog/redis"
	"github.com/finsight/webhooks/inbound"
	"github.com/finsight/webhooks/ingest"
	"github.com/finsight/webhooks/internal/http/chi"
	"github.com/finsight/webhooks/ledger"
	"github.com/finsight/webhooks/metrics"
	"github.com/finsight/webhooks/outbound"
	"github.com/finsight/webhooks/sources"
	goredis "github.com/redis/go-redis/v9"
)

const TIMEOUT = 30 * time.Second

/* main wires the two webhook pipelines to their collaborators:
 * config -> redis -> execution log -> receivers/dispatcher -> HTTP.
 * Imports point only downward: the binary imports the business layers,
 * which import the storage layer
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		fmt.Println(fmt.Errorf("connecting to Redis: %w", err))
		return
	}
	defer client.Close()

	// Durable stream sink plus structured stdout, every entry goes to both
	stream := execlogredis.NewStream(client)
	sink := execlog.NewFanout(
		execlog.NewSlog(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
		stream,
	)

	loader := sources.NewLoader()
	if err := loader.Load(cfg.SourcesFile); err != nil {
		fmt.Println(err)
		return
	}

	forwarder := ingest.NewRedisForwarder(client)
	inboundSources := make([]chi.InboundSource, 0, len(loader.List()))
	for _, source := range loader.List() {
		secret := source.SigningSecret()
		if secret == "" {
			secret = cfg.WebhookSigningSecret
		}
		inboundSources = append(inboundSources, chi.InboundSource{
			Name:            source.Name,
			Path:            source.Path,
			SignatureHeader: source.SignatureHeader,
			Receiver:        inbound.NewReceiver(secret, forwarder, sink),
		})
	}

	dispatcher := outbound.NewDispatcher(
		config.StaticFlags{Enabled: cfg.WebhooksEnabled},
		cfg.GetEnvironment(),
		outbound.DefaultPolicy(),
		sink,
	)

	deliveryLedger := ledger.NewLedger(stream)

	exporter, err := metrics.NewOTelExporter(deliveryLedger)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(context.Background())

	r := chi.Handlers(ctx, dispatcher, deliveryLedger, exporter.ServeHTTP(), inboundSources)
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
