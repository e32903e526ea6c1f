package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/logger"
)

// Component owns the OTLP meter and tracer providers. Without an endpoint
// it starts nothing and the global no-op providers stay in place.
type Component struct {
	cfg     Config
	service string
	version string
	env     string
	log     *logger.Logger

	mp *sdkmetric.MeterProvider
	tp *sdktrace.TracerProvider
}

var _ component.Component = (*Component)(nil)

func NewComponent(cfg Config, service, version, env string, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{cfg: cfg, service: service, version: version, env: env, log: log.WithComponent("observability")}
}

func (c *Component) Name() string { return "observability" }

func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if !c.cfg.Enabled() {
		c.log.Debug("otlp endpoint not configured, telemetry export disabled")
		return nil
	}
	mp, err := InitMeter(ctx, MeterConfig{
		ServiceName: c.service, ServiceVersion: c.version, Environment: c.env,
		Endpoint: c.cfg.Endpoint, Insecure: c.cfg.Insecure, Interval: c.cfg.Interval,
	})
	if err != nil {
		return fmt.Errorf("observability start: %w", err)
	}
	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName: c.service, ServiceVersion: c.version, Environment: c.env,
		Endpoint: c.cfg.Endpoint, Insecure: c.cfg.Insecure, SampleRate: c.cfg.SampleRate,
	})
	if err != nil {
		_ = mp.Shutdown(ctx)
		return fmt.Errorf("observability start: %w", err)
	}
	c.mp, c.tp = mp, tp
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	details := "export=disabled"
	if c.cfg.Enabled() {
		details = fmt.Sprintf("endpoint=%s interval=%s sample_rate=%.2f", c.cfg.Endpoint, c.cfg.Interval, c.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "otel", Details: details}
}
