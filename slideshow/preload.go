package slideshow

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/httpclient"
	"github.com/kbukum/slideshow/observability"
)

// Preloaded describes an image that was fetched and recognised.
type Preloaded struct {
	URL         string
	ContentType string
	Size        int
}

// Preloader fetches an image off-display and confirms it decodes as one.
type Preloader interface {
	Preload(ctx context.Context, url string) (Preloaded, error)
}

// HTTPPreloader downloads the image and sniffs its content.
type HTTPPreloader struct {
	client *httpclient.Client
}

var _ Preloader = (*HTTPPreloader)(nil)

// NewHTTPPreloader creates a preloader. Retries are left to the rotator so
// each attempt gets a fresh cache-busting URL.
func NewHTTPPreloader(timeout time.Duration, maxBytes int64) (*HTTPPreloader, error) {
	c, err := httpclient.New(httpclient.Config{
		Timeout:      timeout,
		MaxBodyBytes: maxBytes,
		Headers:      map[string]string{"Accept": "image/*"},
	})
	if err != nil {
		return nil, fmt.Errorf("slideshow: preloader: %w", err)
	}
	return &HTTPPreloader{client: c}, nil
}

// Preload requires a 2xx answer whose body is detected as image/*.
func (p *HTTPPreloader) Preload(ctx context.Context, url string) (pre Preloaded, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSlideshowPreload, attribute.String("url", url))
	defer func() { observability.EndSpan(span, err) }()

	resp, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: url})
	if err != nil {
		return Preloaded{}, apperrors.PreloadFailed(url, err)
	}

	mt := mimetype.Detect(resp.Body)
	if !strings.HasPrefix(mt.String(), "image/") {
		name := path.Base(strings.SplitN(url, "?", 2)[0])
		return Preloaded{}, apperrors.PreloadFailed(url,
			apperrors.UnsupportedMedia(name).WithDetail("detected", mt.String()))
	}
	return Preloaded{URL: url, ContentType: mt.String(), Size: len(resp.Body)}, nil
}
