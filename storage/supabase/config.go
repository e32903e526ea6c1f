package supabase

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPageSize is the number of entries requested per list call.
const DefaultPageSize = 1000

// Config holds Supabase-specific storage configuration.
type Config struct {
	// URL is the project URL, e.g. https://xyz.supabase.co.
	URL    string `mapstructure:"url" json:"url"`
	Bucket string `mapstructure:"bucket" json:"bucket"`
	// Key is the anon or service-role key. It is sent both as the apikey
	// header and as a bearer token.
	Key      string `mapstructure:"key" json:"-"`
	PageSize int    `mapstructure:"page_size" json:"page_size"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.URL = strings.TrimRight(c.URL, "/")
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
}

// Validate checks that the Supabase configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("supabase: url is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("supabase: bucket is required"))
	}
	if c.Key == "" {
		errs = append(errs, errors.New("supabase: key is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("supabase: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// GetBucket returns the bucket name.
func (c *Config) GetBucket() string { return c.Bucket }
