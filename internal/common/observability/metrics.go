package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
	documentBytes      otelmetric.Int64Histogram
}

// New registers an OpenTelemetry meter provider exporting through the
// Prometheus default registry, so otel instruments show up on /metrics.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	submissionCounter, _ := meter.Int64Counter(
		"quotation.submissions",
		otelmetric.WithDescription("Number of quotation submissions processed"),
	)

	submissionDuration, _ := meter.Float64Histogram(
		"quotation.submission.duration",
		otelmetric.WithDescription("End-to-end submission duration"),
		otelmetric.WithUnit("ms"),
	)

	documentBytes, _ := meter.Int64Histogram(
		"quotation.document.size",
		otelmetric.WithDescription("Size of generated proposal documents"),
		otelmetric.WithUnit("By"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		submissionCounter:  submissionCounter,
		submissionDuration: submissionDuration,
		documentBytes:      documentBytes,
	}
}

func (o *Observability) RecordSubmission(ctx context.Context, status string) {
	if o == nil || o.submissionCounter == nil {
		return
	}
	o.submissionCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) RecordSubmissionDuration(ctx context.Context, duration time.Duration, status string) {
	if o == nil || o.submissionDuration == nil {
		return
	}
	o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDocumentSize(ctx context.Context, bytes int) {
	if o == nil || o.documentBytes == nil {
		return
	}
	o.documentBytes.Record(ctx, int64(bytes))
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
