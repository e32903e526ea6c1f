package source

import (
	"context"
	"fmt"
)

// Image is one entry of the slideshow playlist.
type Image struct {
	// Name is the file name shown in status text and logs.
	Name string `json:"name"`
	// URL is the loadable address, before any cache-busting parameter.
	URL string `json:"url"`
	// PublicURL is the address handed to viewers when it differs from URL,
	// e.g. a same-origin path while URL points at loopback.
	PublicURL string `json:"public_url,omitempty"`
}

// ViewURL returns the address viewers should load.
func (i Image) ViewURL() string {
	if i.PublicURL != "" {
		return i.PublicURL
	}
	return i.URL
}

// Source produces the ordered playlist.
type Source interface {
	// Name identifies the source kind in logs and metrics.
	Name() string
	Images(ctx context.Context) ([]Image, error)
}

// New builds the source selected by cfg.Type.
func New(cfg Config) (Source, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case TypeListing:
		return NewListing(cfg.Listing, cfg.Extensions)
	case TypeGitHub:
		return NewGitHub(cfg.GitHub, cfg.Extensions)
	case TypeStatic:
		return NewStatic(cfg.Static), nil
	default:
		return nil, fmt.Errorf("source: unknown type %q", cfg.Type)
	}
}
