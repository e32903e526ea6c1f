package gallery

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultExtensions is the image allow-list used when none is configured.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}

const (
	DefaultPrefix       = "images/"
	DefaultCacheTTL     = 10 * time.Second
	DefaultObjectMaxAge = 60 * time.Second
)

// Config controls which files the listing endpoint exposes.
type Config struct {
	// Prefix is the folder listed when a request carries no prefix.
	Prefix string `mapstructure:"prefix" json:"prefix"`
	// AllowedPrefixes restricts the prefixes a client may ask for. Sub-folders
	// of an allowed prefix are allowed. Defaults to Prefix alone.
	AllowedPrefixes []string `mapstructure:"allowed_prefixes" json:"allowed_prefixes"`
	// Extensions is the case-insensitive extension allow-list, without dots.
	Extensions []string `mapstructure:"extensions" json:"extensions"`
	// Include narrows the result to names matching any of these doublestar
	// patterns. Empty means every name with an allowed extension.
	Include []string `mapstructure:"include" json:"include"`
	// Unsorted keeps storage order instead of numeric-aware collation.
	Unsorted bool `mapstructure:"unsorted" json:"unsorted"`
	// Locale selects the collation, e.g. "en" or "tr". Defaults to root.
	Locale string `mapstructure:"locale" json:"locale"`
	// CacheTTL is how long a listing is reused. Negative disables caching.
	CacheTTL time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	// Watch invalidates the cache on filesystem changes (local storage only).
	Watch bool `mapstructure:"watch" json:"watch"`
	// ObjectMaxAge is the Cache-Control max-age for served images.
	ObjectMaxAge time.Duration `mapstructure:"object_max_age" json:"object_max_age"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if len(c.AllowedPrefixes) == 0 {
		c.AllowedPrefixes = []string{c.Prefix}
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.ObjectMaxAge <= 0 {
		c.ObjectMaxAge = DefaultObjectMaxAge
	}
}

// Validate checks prefixes, patterns and locale.
func (c *Config) Validate() error {
	if _, err := NormalizePrefix(c.Prefix); err != nil {
		return fmt.Errorf("gallery: prefix: %w", err)
	}
	for _, p := range c.AllowedPrefixes {
		if _, err := NormalizePrefix(p); err != nil {
			return fmt.Errorf("gallery: allowed_prefixes: %w", err)
		}
	}
	for _, ext := range c.Extensions {
		if strings.TrimLeft(ext, ".") == "" {
			return fmt.Errorf("gallery: empty extension in allow-list")
		}
	}
	if _, err := NewFilter(c.Extensions, c.Include); err != nil {
		return err
	}
	if _, err := c.Tag(); err != nil {
		return err
	}
	return nil
}

// Tag returns the collation language.
func (c *Config) Tag() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("gallery: locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
