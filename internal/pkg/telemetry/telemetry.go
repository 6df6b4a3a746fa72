// telemetry.go provides OpenTelemetry instrumentation for Etherscan client calls.
//
// Metrics:
//   - etherscan.client.request.duration: Histogram of call latencies by module/action/kind
//   - etherscan.client.requests.total: Counter of calls by module/action/kind
//   - etherscan.client.retries.total: Counter of retry attempts
//
// Every call also gets a client span named "etherscan.<module>.<action>".
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/archon-research/etherscan/pkg/etherscan"

// Telemetry holds the tracer and instruments used by the client.
type Telemetry struct {
	tracer trace.Tracer

	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	retriesTotal    metric.Int64Counter
}

// New creates instrumentation from the given providers. Nil providers fall back
// to the otel globals, which are no-ops until an application installs real ones.
func New(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)
	t := &Telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.requestDuration, err = meter.Float64Histogram(
		"etherscan.client.request.duration",
		metric.WithDescription("Duration of Etherscan API calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	t.requestsTotal, err = meter.Int64Counter(
		"etherscan.client.requests.total",
		metric.WithDescription("Total number of Etherscan API calls"),
	)
	if err != nil {
		return nil, err
	}

	t.retriesTotal, err = meter.Int64Counter(
		"etherscan.client.retries.total",
		metric.WithDescription("Total number of retried Etherscan API calls"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan starts a client span for one API call.
func (t *Telemetry) StartSpan(ctx context.Context, module, action string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "etherscan."+module+"."+action,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("etherscan.module", module),
			attribute.String("etherscan.action", action),
		),
	)
}

// EndSpan records the classified outcome on span and ends it.
func EndSpan(span trace.Span, kind string, err error) {
	span.SetAttributes(attribute.String("etherscan.error_kind", kind))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
	}
	span.End()
}

// RecordRequest records latency and count of a finished call.
func (t *Telemetry) RecordRequest(ctx context.Context, module, action, kind string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("module", module),
		attribute.String("action", action),
		attribute.String("error_kind", kind),
	)
	t.requestDuration.Record(ctx, duration.Seconds(), attrs)
	t.requestsTotal.Add(ctx, 1, attrs)
}

// RecordRetry records one retry attempt.
func (t *Telemetry) RecordRetry(ctx context.Context, module, action string, attempt int) {
	t.retriesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("module", module),
		attribute.String("action", action),
		attribute.Int("attempt", attempt),
	))
}
