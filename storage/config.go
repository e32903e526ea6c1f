package storage

import (
	"fmt"
	"slices"
	"time"
)

const (
	ProviderLocal    = "local"
	ProviderS3       = "s3"
	ProviderSupabase = "supabase"
)

const defaultTimeout = 15 * time.Second

var providers = []string{ProviderLocal, ProviderS3, ProviderSupabase}

// Config holds the provider-independent storage settings. Provider
// specific settings live in each backend's own Config.
type Config struct {
	// Provider selects the backend.
	Provider string `mapstructure:"provider" json:"provider"`
	// Timeout bounds a single storage call.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the provider is known.
func (c *Config) Validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("storage: unsupported provider %q (want one of %v)", c.Provider, providers)
	}
	return nil
}
