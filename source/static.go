package source

import (
	"context"
	"net/url"
	"path"
)

// Static serves a fixed playlist.
type Static struct {
	images []Image
}

func NewStatic(cfg StaticConfig) *Static {
	images := make([]Image, 0, len(cfg.URLs))
	for _, raw := range cfg.URLs {
		name := raw
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			name = path.Base(u.Path)
		}
		images = append(images, Image{Name: name, URL: raw})
	}
	return &Static{images: images}
}

func (s *Static) Name() string { return TypeStatic }

func (s *Static) Images(_ context.Context) ([]Image, error) {
	return append([]Image(nil), s.images...), nil
}
