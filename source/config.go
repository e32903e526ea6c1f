package source

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/httpclient"
)

const (
	TypeListing = "listing"
	TypeGitHub  = "github"
	TypeStatic  = "static"
)

var types = []string{TypeListing, TypeGitHub, TypeStatic}

// DefaultUserAgent is sent to the GitHub API, which rejects requests
// without one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultGitHubAPI    = "https://api.github.com"
	DefaultGitHubRaw    = "https://raw.githubusercontent.com"
	DefaultGitHubBranch = "main"
	DefaultObjectPath   = "/objects/"
	defaultTimeout      = 15 * time.Second
)

// Config selects and configures the playlist source.
type Config struct {
	Type       string        `mapstructure:"type" json:"type"`
	Extensions []string      `mapstructure:"extensions" json:"extensions"`
	Listing    ListingConfig `mapstructure:"listing" json:"listing"`
	GitHub     GitHubConfig  `mapstructure:"github" json:"github"`
	Static     StaticConfig  `mapstructure:"static" json:"static"`
}

// ListingConfig points at a /list endpoint.
type ListingConfig struct {
	// BaseURL is the origin serving /list and the images.
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// PublicBaseURL is the origin viewers load images from. Empty means
	// same-origin paths such as /objects/images/a.png.
	PublicBaseURL string `mapstructure:"public_base_url" json:"public_base_url"`
	Prefix  string `mapstructure:"prefix" json:"prefix"`
	// ObjectPath is the route images are served under.
	ObjectPath string        `mapstructure:"object_path" json:"object_path"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
	// TLS is needed when the origin uses a private CA or a client cert.
	TLS *httpclient.TLSConfig `mapstructure:"tls" json:"-"`
}

// GitHubConfig names a folder in a GitHub repository.
type GitHubConfig struct {
	Owner  string `mapstructure:"owner" json:"owner"`
	Repo   string `mapstructure:"repo" json:"repo"`
	Path   string `mapstructure:"path" json:"path"`
	Branch string `mapstructure:"branch" json:"branch"`
	// Token raises the API quota. Optional.
	Token      string        `mapstructure:"token" json:"-"`
	APIBaseURL string        `mapstructure:"api_base_url" json:"api_base_url"`
	RawBaseURL string        `mapstructure:"raw_base_url" json:"raw_base_url"`
	UserAgent  string        `mapstructure:"user_agent" json:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
	// RequestsPerMinute caps API calls made by this process.
	RequestsPerMinute float64 `mapstructure:"requests_per_minute" json:"requests_per_minute"`
}

// StaticConfig is a fixed list of image URLs.
type StaticConfig struct {
	URLs []string `mapstructure:"urls" json:"urls"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeListing
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), gallery.DefaultExtensions...)
	}
	if c.Listing.Prefix == "" {
		c.Listing.Prefix = gallery.DefaultPrefix
	}
	if c.Listing.ObjectPath == "" {
		c.Listing.ObjectPath = DefaultObjectPath
	}
	if c.Listing.Timeout <= 0 {
		c.Listing.Timeout = defaultTimeout
	}
	g := &c.GitHub
	if g.Branch == "" {
		g.Branch = DefaultGitHubBranch
	}
	if g.APIBaseURL == "" {
		g.APIBaseURL = DefaultGitHubAPI
	}
	if g.RawBaseURL == "" {
		g.RawBaseURL = DefaultGitHubRaw
	}
	if g.UserAgent == "" {
		g.UserAgent = DefaultUserAgent
	}
	if g.Timeout <= 0 {
		g.Timeout = defaultTimeout
	}
	if g.RequestsPerMinute <= 0 {
		g.RequestsPerMinute = 30
	}
}

// Validate checks the settings of the selected type only.
func (c *Config) Validate() error {
	if !slices.Contains(types, c.Type) {
		return fmt.Errorf("source: unsupported type %q (want one of %v)", c.Type, types)
	}
	var errs []error
	switch c.Type {
	case TypeListing:
		if c.Listing.BaseURL == "" {
			errs = append(errs, errors.New("source: listing.base_url is required"))
		}
		if err := validateOrigin(c.Listing.PublicBaseURL); err != nil {
			errs = append(errs, fmt.Errorf("source: listing.public_base_url: %w", err))
		}
		if _, err := gallery.NormalizePrefix(c.Listing.Prefix); err != nil {
			errs = append(errs, fmt.Errorf("source: listing.prefix: %w", err))
		}
		if err := c.Listing.TLS.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("source: listing.tls: %w", err))
		}
	case TypeGitHub:
		if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
			errs = append(errs, errors.New("source: github.owner and github.repo are required"))
		}
		if strings.Contains(c.GitHub.Path, "..") {
			errs = append(errs, errors.New("source: github.path must not contain '..'"))
		}
	case TypeStatic:
		if len(c.Static.URLs) == 0 {
			errs = append(errs, errors.New("source: static.urls is empty"))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("source: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// validateOrigin accepts an empty string or an absolute http(s) URL.
func validateOrigin(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
