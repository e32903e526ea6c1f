package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/httpclient"
	"github.com/kbukum/slideshow/httpclient/rest"
	"github.com/kbukum/slideshow/observability"
)

type listResponse struct {
	Success bool     `json:"success"`
	Images  []string `json:"images"`
	Message string   `json:"message"`
}

// Listing reads the playlist from a /list endpoint.
type Listing struct {
	client     *rest.Client
	base       string
	publicBase string
	prefix     string
	objectPath string
	filter     *gallery.Filter
}

// NewListing creates a listing source. Names returned by the endpoint are
// filtered again with extensions.
func NewListing(cfg ListingConfig, extensions []string) (*Listing, error) {
	prefix, err := gallery.NormalizePrefix(cfg.Prefix)
	if err != nil {
		return nil, err
	}
	filter, err := gallery.NewFilter(extensions, nil)
	if err != nil {
		return nil, err
	}
	client, err := rest.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, fmt.Errorf("source: listing client: %w", err)
	}
	return &Listing{
		client:     client,
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		prefix:     prefix,
		objectPath: "/" + strings.Trim(cfg.ObjectPath, "/") + "/",
		filter:     filter,
	}, nil
}

func (l *Listing) Name() string { return TypeListing }

// Images fetches /list once and resolves each name against the object route.
// URL is reached through BaseURL; PublicURL through PublicBaseURL, or a
// same-origin path when that is unset.
func (l *Listing) Images(ctx context.Context) (images []Image, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSourceFetch,
		attribute.String("source", TypeListing), attribute.String("prefix", l.prefix))
	defer func() { observability.EndSpan(span, err) }()

	resp, err := rest.Get[listResponse](ctx, l.client, "/list", rest.WithQuery(map[string]string{"prefix": l.prefix}))
	if err != nil {
		if resp != nil && resp.Data.Message != "" {
			return nil, apperrors.ExternalServiceError(TypeListing, fmt.Errorf("%s: %w", resp.Data.Message, err))
		}
		return nil, apperrors.ExternalServiceError(TypeListing, err)
	}
	if !resp.Data.Success {
		msg := resp.Data.Message
		if msg == "" {
			msg = "listing reported failure"
		}
		return nil, apperrors.ExternalServiceError(TypeListing, fmt.Errorf("%s", msg))
	}

	images = make([]Image, 0, len(resp.Data.Images))
	for _, name := range resp.Data.Images {
		if name == "" || strings.Contains(name, "/") || !l.filter.Match(name) {
			continue
		}
		p := l.objectPath + l.prefix + url.PathEscape(name)
		images = append(images, Image{Name: name, URL: l.base + p, PublicURL: l.publicBase + p})
	}
	return images, nil
}
