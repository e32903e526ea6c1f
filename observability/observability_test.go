package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/slideshow/component"
)

func TestMetrics_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordSlideShown(ctx, "listing")
	m.RecordSlideShown(ctx, "listing")
	m.RecordPreloadFailure(ctx, "listing")
	m.RecordSkip(ctx, "listing")
	m.RecordListing(ctx, "images/", "ok", 10*time.Millisecond)
	m.RecordRequest(ctx, "GET", "/list", 200, time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if s, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	want := map[string]int64{
		"slideshow.slides.shown":     2,
		"slideshow.preload.failures": 1,
		"slideshow.skips":            1,
		"gallery.list.total":         1,
		"http.server.request.total":  1,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordSlideShown(ctx, "x")
	m.RecordListing(ctx, "p", "ok", time.Second)
	m.RecordRequest(ctx, "GET", "/", 200, time.Second)
}

func TestNewMetrics_Noop(t *testing.T) {
	if _, err := NewMetrics(noop.NewMeterProvider().Meter("test")); err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
}

func TestEndSpan_RecordsError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	_, span := tp.Tracer("test").Start(context.Background(), SpanGalleryList)
	EndSpan(span, errors.New("boom"))

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d", len(ended))
	}
	if len(ended[0].Events()) == 0 {
		t.Error("expected error event on span")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("slideshow", "1.0.0")
	sh.AddComponent(component.Health{Name: "a", Status: component.StatusHealthy})
	if sh.Status != HealthStatusUp {
		t.Errorf("status = %s", sh.Status)
	}
	sh.AddComponent(component.Health{Name: "b", Status: component.StatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("status = %s", sh.Status)
	}
	sh.AddComponent(component.Health{Name: "c", Status: component.StatusUnhealthy})
	sh.AddComponent(component.Health{Name: "d", Status: component.StatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("degraded must not override down, got %s", sh.Status)
	}
}

func TestComponent_DisabledWithoutEndpoint(t *testing.T) {
	c := NewComponent(Config{}, "slideshow", "dev", "test", nil)
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.mp != nil || c.tp != nil {
		t.Error("providers should not be created without an endpoint")
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if d := c.Describe(); d.Details != "export=disabled" {
		t.Errorf("Describe = %+v", d)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{SampleRate: 2}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate > 1")
	}
}
