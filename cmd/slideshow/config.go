package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/kbukum/slideshow/config"
	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/redis"
	"github.com/kbukum/slideshow/server"
	"github.com/kbukum/slideshow/slideshow"
	"github.com/kbukum/slideshow/source"
	"github.com/kbukum/slideshow/storage"
	"github.com/kbukum/slideshow/storage/local"
	s3storage "github.com/kbukum/slideshow/storage/s3"
	"github.com/kbukum/slideshow/storage/supabase"
	"github.com/kbukum/slideshow/validation"
	"github.com/kbukum/slideshow/version"
)

const serviceName = "slideshow"

// AppConfig is the full configuration of the slideshow binary.
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server        server.Config        `mapstructure:"server"`
	Storage       StorageConfig        `mapstructure:"storage"`
	Gallery       gallery.Config       `mapstructure:"gallery"`
	Source        source.Config        `mapstructure:"source"`
	Slideshow     slideshow.Config     `mapstructure:"slideshow"`
	Redis         redis.Config         `mapstructure:"redis"`
	Observability observability.Config `mapstructure:"observability"`
}

// StorageConfig selects a backend and carries the settings of each.
type StorageConfig struct {
	storage.Config `mapstructure:",squash"`

	Local    local.Config     `mapstructure:"local"`
	S3       s3storage.Config `mapstructure:"s3"`
	Supabase supabase.Config  `mapstructure:"supabase"`
}

// ProviderConfig returns the settings of the selected backend.
func (c *StorageConfig) ProviderConfig() any {
	switch c.Provider {
	case storage.ProviderS3:
		return &c.S3
	case storage.ProviderSupabase:
		return &c.Supabase
	default:
		return &c.Local
	}
}

func (c *StorageConfig) ApplyDefaults() {
	c.Config.ApplyDefaults()
	switch c.Provider {
	case storage.ProviderLocal:
		c.Local.ApplyDefaults()
	case storage.ProviderS3:
		c.S3.ApplyDefaults()
	case storage.ProviderSupabase:
		c.Supabase.ApplyDefaults()
	}
}

// Validate checks the shared settings and those of the selected backend.
func (c *StorageConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	switch c.Provider {
	case storage.ProviderS3:
		return c.S3.Validate()
	case storage.ProviderSupabase:
		return c.Supabase.Validate()
	default:
		return c.Local.Validate()
	}
}

// ApplyDefaults fills every section. A listing source with no base URL
// points back at this process, and inherits the gallery prefix and
// extensions.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Version = version.Resolve(c.Version)
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Gallery.ApplyDefaults()

	if c.Source.Listing.BaseURL == "" {
		c.Source.Listing.BaseURL = "http://" + loopbackAddr(c.Server.Host, c.Server.Port)
	}
	if c.Source.Listing.Prefix == "" {
		c.Source.Listing.Prefix = c.Gallery.Prefix
	}
	if len(c.Source.Extensions) == 0 {
		c.Source.Extensions = append([]string(nil), c.Gallery.Extensions...)
	}
	c.Source.ApplyDefaults()
	c.Slideshow.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports all failures together.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.ServiceConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := validation.Struct(c); err != nil {
		errs = append(errs, err)
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Gallery.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Source.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Slideshow.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// loopbackAddr is the address a client on this host uses to reach a
// server bound to host:port.
func loopbackAddr(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func loadConfig() (*AppConfig, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
