package local

import "fmt"

// DefaultBasePath is served when no directory is configured.
const DefaultBasePath = "./public"

// Config holds local filesystem storage configuration.
type Config struct {
	// BasePath is the storage root. Listing prefixes are resolved below it.
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
}

// Validate checks that the local configuration is valid.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("local: base_path is required")
	}
	return nil
}
