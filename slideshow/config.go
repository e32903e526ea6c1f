package slideshow

import (
	"fmt"
	"time"
)

const (
	DefaultInterval       = 5 * time.Second
	DefaultRetryCount     = 3
	DefaultRetryDelay     = 100 * time.Millisecond
	DefaultPreloadTimeout = 15 * time.Second
	DefaultMaxImageBytes  = 32 << 20
)

// Config controls rotation timing and failure handling.
type Config struct {
	// Interval is the time between two advances.
	Interval time.Duration `mapstructure:"interval" json:"interval"`
	// RetryCount is how many extra attempts a failing image gets before the
	// rotator moves on. Zero means the default; negative disables retries.
	RetryCount int `mapstructure:"retry_count" json:"retry_count"`
	// RetryDelay is the pause between attempts on the same image.
	RetryDelay time.Duration `mapstructure:"retry_delay" json:"retry_delay"`
	// NoCacheBust stops appending the t= parameter to image URLs.
	NoCacheBust    bool          `mapstructure:"no_cache_bust" json:"no_cache_bust"`
	PreloadTimeout time.Duration `mapstructure:"preload_timeout" json:"preload_timeout"`
	MaxImageBytes  int64         `mapstructure:"max_image_bytes" json:"max_image_bytes"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.RetryCount == 0 {
		c.RetryCount = DefaultRetryCount
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.PreloadTimeout <= 0 {
		c.PreloadTimeout = DefaultPreloadTimeout
	}
	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = DefaultMaxImageBytes
	}
}

// Validate rejects settings that would spin the rotator.
func (c *Config) Validate() error {
	if c.Interval < 10*time.Millisecond {
		return fmt.Errorf("slideshow: interval %s is too short", c.Interval)
	}
	return nil
}

// attempts is the total number of tries per image.
func (c *Config) attempts() int {
	if c.RetryCount < 0 {
		return 1
	}
	return c.RetryCount + 1
}
