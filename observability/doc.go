// Package observability wires OpenTelemetry metrics and tracing.
//
// Metrics:
//
//	m, err := observability.NewMetrics(observability.Meter())
//	m.RecordSlideShown(ctx, "listing")
//
// Tracing:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanGalleryList)
//	defer func() { observability.EndSpan(span, err) }()
//
// Component installs OTLP HTTP exporters when an endpoint is configured and
// shuts them down on Stop.
package observability
