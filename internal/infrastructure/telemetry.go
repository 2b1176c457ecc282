package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ServiceName identifies this service in traces.
	ServiceName = "ecpulse"
	// ServiceVersion is the reported service version.
	ServiceVersion = "0.1.0"
)

// Telemetry bundles the tracer and the Prometheus query metrics.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer

	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
}

// InitializeTelemetry sets up a stdout trace exporter and registers the
// query metrics on the default Prometheus registry.
func InitializeTelemetry(ctx context.Context, logger *slog.Logger) (*Telemetry, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	t := &Telemetry{
		TracerProvider: tp,
		Tracer:         tp.Tracer(ServiceName),
		QueriesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ecpulse_queries_total",
			Help: "Analytical queries executed, by query type and outcome.",
		}, []string{"query", "outcome"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ecpulse_query_duration_seconds",
			Help:    "Pipeline evaluation latency by query type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
	}

	logger.InfoContext(ctx, "telemetry initialized",
		slog.String("service", ServiceName),
		slog.String("version", ServiceVersion))
	return t, nil
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.TracerProvider == nil {
		return nil
	}
	return t.TracerProvider.Shutdown(ctx)
}
