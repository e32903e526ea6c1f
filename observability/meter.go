package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/slideshow/logger"
)

const meterName = "github.com/kbukum/slideshow"

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	Insecure bool
	Interval time.Duration
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The caller shuts it down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(meterName)
}

// Metrics holds the instruments recorded by the listing endpoint and the
// rotator. A nil *Metrics is valid and records nothing.
type Metrics struct {
	listTotal       metric.Int64Counter
	listDuration    metric.Float64Histogram
	slidesShown     metric.Int64Counter
	preloadFailures metric.Int64Counter
	skips           metric.Int64Counter
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.listTotal, err = meter.Int64Counter("gallery.list.total",
		metric.WithDescription("Listing requests by outcome"),
	); err != nil {
		return nil, fmt.Errorf("creating gallery.list.total counter: %w", err)
	}
	if m.listDuration, err = meter.Float64Histogram("gallery.list.duration",
		metric.WithDescription("Duration of storage listings in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating gallery.list.duration histogram: %w", err)
	}
	if m.slidesShown, err = meter.Int64Counter("slideshow.slides.shown",
		metric.WithDescription("Slides committed to the display"),
	); err != nil {
		return nil, fmt.Errorf("creating slideshow.slides.shown counter: %w", err)
	}
	if m.preloadFailures, err = meter.Int64Counter("slideshow.preload.failures",
		metric.WithDescription("Failed image preload attempts"),
	); err != nil {
		return nil, fmt.Errorf("creating slideshow.preload.failures counter: %w", err)
	}
	if m.skips, err = meter.Int64Counter("slideshow.skips",
		metric.WithDescription("Images skipped after exhausting retries"),
	); err != nil {
		return nil, fmt.Errorf("creating slideshow.skips counter: %w", err)
	}
	if m.requestTotal, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("HTTP requests served"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.request.total counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating http.server.request.duration histogram: %w", err)
	}
	return &m, nil
}

// RecordListing records one storage listing.
func (m *Metrics) RecordListing(ctx context.Context, prefix, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.listTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("prefix", prefix),
		attribute.String("status", status),
	))
	m.listDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("prefix", prefix)))
}

func (m *Metrics) RecordSlideShown(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.slidesShown.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *Metrics) RecordPreloadFailure(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.preloadFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *Metrics) RecordSkip(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.skips.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordRequest records a served HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
	))
}
