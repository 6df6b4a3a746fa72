package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTelemetry(t *testing.T) (*Telemetry, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	tel, err := New(tp, mp)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tel, recorder, reader
}

func TestNew_DefaultsToGlobalProviders(t *testing.T) {
	tel, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, span := tel.StartSpan(context.Background(), "account", "balance")
	EndSpan(span, "NoError", nil)
	tel.RecordRequest(ctx, "account", "balance", "NoError", time.Millisecond)
}

func TestTelemetry_Span(t *testing.T) {
	tel, recorder, _ := newTestTelemetry(t)

	_, span := tel.StartSpan(context.Background(), "proxy", "eth_blockNumber")
	EndSpan(span, "MaxRateError", errors.New("Max rate limit reached"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name() != "etherscan.proxy.eth_blockNumber" {
		t.Errorf("span name = %q, want etherscan.proxy.eth_blockNumber", got.Name())
	}
	if got.Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", got.Status().Code)
	}

	found := false
	for _, attr := range got.Attributes() {
		if attr.Key == "etherscan.error_kind" && attr.Value.AsString() == "MaxRateError" {
			found = true
		}
	}
	if !found {
		t.Errorf("span missing etherscan.error_kind attribute: %v", got.Attributes())
	}
}

func TestTelemetry_RecordRequest(t *testing.T) {
	tel, _, reader := newTestTelemetry(t)
	ctx := context.Background()

	tel.RecordRequest(ctx, "account", "balance", "NoError", 20*time.Millisecond)
	tel.RecordRequest(ctx, "account", "balance", "NoError", 30*time.Millisecond)
	tel.RecordRetry(ctx, "account", "balance", 1)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
				if m.Name == "etherscan.client.requests.total" {
					if v, ok := dp.Attributes.Value(attribute.Key("error_kind")); !ok || v.AsString() != "NoError" {
						t.Errorf("requests.total missing error_kind=NoError: %v", dp.Attributes)
					}
				}
			}
		}
	}

	if totals["etherscan.client.requests.total"] != 2 {
		t.Errorf("requests.total = %d, want 2", totals["etherscan.client.requests.total"])
	}
	if totals["etherscan.client.retries.total"] != 1 {
		t.Errorf("retries.total = %d, want 1", totals["etherscan.client.retries.total"])
	}
}

func TestSetup_NoExportersIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, sdktrace.AlwaysSample().Description()},
		{0, sdktrace.NeverSample().Description()},
		{0.5, sdktrace.TraceIDRatioBased(0.5).Description()},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
