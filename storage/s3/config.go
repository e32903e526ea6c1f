package s3

import (
	"errors"
	"fmt"
)

// DefaultRegion is the default AWS region.
const DefaultRegion = "us-east-1"

// Config holds S3-specific storage configuration.
type Config struct {
	Bucket string `mapstructure:"bucket" json:"bucket"`
	Region string `mapstructure:"region" json:"region"`
	// Endpoint points at an S3-compatible service (MinIO, R2). Setting it
	// implies path-style addressing.
	Endpoint  string `mapstructure:"endpoint" json:"endpoint"`
	AccessKey string `mapstructure:"access_key" json:"access_key"`
	SecretKey string `mapstructure:"secret_key" json:"secret_key"`
	// ForcePathStyle forces path-style URLs against AWS itself.
	ForcePathStyle bool `mapstructure:"force_path_style" json:"force_path_style"`
	// PublicBaseURL overrides the URL returned by URL, e.g. a CDN in front
	// of the bucket.
	PublicBaseURL string `mapstructure:"public_base_url" json:"public_base_url"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the S3 configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("s3: bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("s3: region is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("s3: access_key and secret_key must be set together"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("s3: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// GetBucket returns the bucket name.
func (c *Config) GetBucket() string { return c.Bucket }
