package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/httpclient"
	"github.com/kbukum/slideshow/httpclient/rest"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/resilience"
)

type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// GitHub lists a repository folder through the contents API and serves the
// files from raw.githubusercontent.com.
type GitHub struct {
	client *rest.Client
	cfg    GitHubConfig
	path   string
	filter *gallery.Filter
}

// NewGitHub creates a GitHub source. Calls go through a client-side rate
// limiter and a circuit breaker so a polling deployment does not burn the
// API quota.
func NewGitHub(cfg GitHubConfig, extensions []string) (*GitHub, error) {
	filter, err := gallery.NewFilter(extensions, nil)
	if err != nil {
		return nil, err
	}

	httpCfg := httpclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
		Headers: map[string]string{
			"Accept":     "application/vnd.github.v3+json",
			"User-Agent": cfg.UserAgent,
		},
		Retry:          httpclient.DefaultRetryConfig(),
		CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("github"),
		RateLimiter: &resilience.RateLimiterConfig{
			Name:  "github",
			Rate:  cfg.RequestsPerMinute / float64(time.Minute/time.Second),
			Burst: max(int(cfg.RequestsPerMinute/10), 1),
		},
	}
	if cfg.Token != "" {
		httpCfg.Auth = httpclient.BearerAuth(cfg.Token)
	}
	client, err := rest.New(httpCfg)
	if err != nil {
		return nil, fmt.Errorf("source: github client: %w", err)
	}

	p := strings.Trim(cfg.Path, "/")
	if p != "" {
		p += "/"
	}
	return &GitHub{client: client, cfg: cfg, path: p, filter: filter}, nil
}

func (g *GitHub) Name() string { return TypeGitHub }

// Images lists the folder once. Only entries of type "file" with an
// allowed extension are kept, in API order.
func (g *GitHub) Images(ctx context.Context) (images []Image, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSourceFetch,
		attribute.String("source", TypeGitHub),
		attribute.String("repo", g.cfg.Owner+"/"+g.cfg.Repo))
	defer func() { observability.EndSpan(span, err) }()

	apiPath := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(g.cfg.Owner), url.PathEscape(g.cfg.Repo), escapePath(strings.TrimSuffix(g.path, "/")))
	resp, err := rest.Get[[]contentEntry](ctx, g.client, apiPath,
		rest.WithQuery(map[string]string{"ref": g.cfg.Branch}))
	if err != nil {
		return nil, g.wrapError(err)
	}

	images = make([]Image, 0, len(resp.Data))
	for _, e := range resp.Data {
		if e.Type != "file" || !g.filter.Match(e.Name) {
			continue
		}
		images = append(images, Image{Name: e.Name, URL: g.rawURL(e.Name)})
	}
	return images, nil
}

// rawURL is {raw}/{owner}/{repo}/{branch}/{path}{name}.
func (g *GitHub) rawURL(name string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimRight(g.cfg.RawBaseURL, "/"),
		url.PathEscape(g.cfg.Owner), url.PathEscape(g.cfg.Repo), escapePath(g.cfg.Branch),
		escapePath(g.path+name))
}

func (g *GitHub) wrapError(err error) error {
	status := httpclient.StatusCode(err)
	switch {
	case httpclient.IsRateLimit(err) || status == 403:
		return apperrors.RateLimited(TypeGitHub).WithCause(err)
	case httpclient.IsTimeout(err):
		return apperrors.Timeout("github contents request").WithCause(err)
	case httpclient.IsNotFound(err):
		return apperrors.NotFound("repository folder", g.cfg.Owner+"/"+g.cfg.Repo+"/"+g.path).WithCause(err)
	case status != 0:
		return apperrors.ExternalServiceError(TypeGitHub, fmt.Errorf("api request failed (status %d): %w", status, err))
	default:
		return apperrors.ExternalServiceError(TypeGitHub, err)
	}
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
