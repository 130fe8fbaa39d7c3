package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/finsight/webhooks/ledger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	stats         ledger.UseCase

	// OTel meters and instruments
	meter           metric.Meter
	executionsGauge metric.Int64ObservableGauge
	retriesGauge    metric.Int64ObservableGauge
	latencyGauge    metric.Float64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(stats ledger.UseCase) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"finsight-webhooks",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		stats:         stats,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Execution count gauge (per outcome)
	oe.executionsGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.executions.total",
		metric.WithDescription("Number of recorded webhook executions by outcome"),
		metric.WithUnit("{executions}"),
		metric.WithInt64Callback(oe.observeExecutions),
	)
	if err != nil {
		return fmt.Errorf("creating executions gauge: %w", err)
	}

	// Retry count gauge
	oe.retriesGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.retries.total",
		metric.WithDescription("Number of retry attempts beyond each execution's first"),
		metric.WithUnit("{attempts}"),
		metric.WithInt64Callback(oe.observeRetries),
	)
	if err != nil {
		return fmt.Errorf("creating retries gauge: %w", err)
	}

	// Average latency gauge
	oe.latencyGauge, err = oe.meter.Float64ObservableGauge(
		"webhook.latency.avg.ms",
		metric.WithDescription("Average webhook execution duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithFloat64Callback(oe.observeLatency),
	)
	if err != nil {
		return fmt.Errorf("creating latency gauge: %w", err)
	}

	return nil
}

// observeExecutions is a callback that reports execution counts by outcome
func (oe *OTelExporter) observeExecutions(ctx context.Context, observer metric.Int64Observer) error {
	stats, err := oe.stats.ComputeStatistics(ctx)
	if err != nil {
		return err
	}

	observer.Observe(int64(stats.SuccessCount), metric.WithAttributes(
		attribute.String("outcome", "success"),
	))
	observer.Observe(int64(stats.FailureCount), metric.WithAttributes(
		attribute.String("outcome", "failure"),
	))

	return nil
}

// observeRetries is a callback that reports the cumulative retry count
func (oe *OTelExporter) observeRetries(ctx context.Context, observer metric.Int64Observer) error {
	stats, err := oe.stats.ComputeStatistics(ctx)
	if err != nil {
		return err
	}

	observer.Observe(int64(stats.TotalRetries))
	return nil
}

// observeLatency is a callback that reports the average execution latency
func (oe *OTelExporter) observeLatency(ctx context.Context, observer metric.Float64Observer) error {
	stats, err := oe.stats.ComputeStatistics(ctx)
	if err != nil {
		return err
	}

	observer.Observe(stats.AverageResponseTimeMs)
	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
