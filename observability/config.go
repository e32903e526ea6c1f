package observability

import (
	"fmt"
	"time"
)

// Config configures OpenTelemetry export. With no endpoint, instruments are
// still created but record into the global no-op providers.
type Config struct {
	// Endpoint is the OTLP HTTP host:port, e.g. "localhost:4318".
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure" json:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval" json:"interval"`
	// SampleRate is the trace sampling ratio between 0 and 1.
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 15 * time.Second
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be within [0,1], got %v", c.SampleRate)
	}
	return nil
}

// Enabled reports whether an exporter endpoint is configured.
func (c *Config) Enabled() bool {
	return c.Endpoint != ""
}
