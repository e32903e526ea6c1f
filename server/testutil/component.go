package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/server"
	"github.com/kbukum/slideshow/server/middleware"
	"github.com/kbukum/slideshow/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RouteFunc mounts handlers, e.g. (*gallery.Handler).Register.
type RouteFunc func(api gin.IRouter)

// Option customises the test server.
type Option func(*server.Config)

// WithRateLimit limits every client to rpm requests per minute.
func WithRateLimit(rpm, burst int) Option {
	return func(c *server.Config) {
		c.RateLimit = middleware.RateLimitConfig{RequestsPerMinute: rpm, Burst: burst}
	}
}

// Component is an httptest-backed server carrying the serve command's
// middleware and rate-limited route group.
type Component struct {
	mu      sync.RWMutex
	cfg     server.Config
	routes  []RouteFunc
	srv     *server.Server
	ts      *httptest.Server
	started bool
}

var _ component.Component = (*Component)(nil)
var _ testutil.TestComponent = (*Component)(nil)

// NewComponent creates a test server with routes mounted.
func NewComponent(routes ...RouteFunc) *Component {
	return NewComponentWith(nil, routes...)
}

// NewComponentWith is NewComponent with server options.
func NewComponentWith(opts []Option, routes ...RouteFunc) *Component {
	cfg := server.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Component{cfg: cfg, routes: append([]RouteFunc(nil), routes...)}
	c.srv = c.build()
	return c
}

func (c *Component) build() *server.Server {
	srv := server.New(c.cfg, logger.NewNop())
	srv.ApplyMiddleware(nil)
	api := srv.GinEngine().Group("", srv.RateLimited())
	for _, fn := range c.routes {
		fn(api)
	}
	return srv
}

// Mount adds routes. They take effect on the next Start or Reset.
func (c *Component) Mount(fn RouteFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, fn)
}

// Server returns the underlying server.
func (c *Component) Server() *server.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.srv
}

// BaseURL is the loopback origin of the running server, or "" before Start.
func (c *Component) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ts == nil {
		return ""
	}
	return c.ts.URL
}

// Get requests path. A non-empty host replaces the Host header, as a
// viewer reaching the service through a public name would send it.
func (c *Component) Get(ctx context.Context, path, host string) (*http.Response, error) {
	base := c.BaseURL()
	if base == "" {
		return nil, errors.New("server-test: not started")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	if host != "" {
		req.Host = host
	}
	return http.DefaultClient.Do(req)
}

func (c *Component) Name() string { return "server-test" }

// Start rebuilds the server from the mounted routes and begins serving.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("server-test: already started")
	}
	c.srv = c.build()
	c.ts = httptest.NewServer(c.srv.Handler())
	c.started = true
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.ts.Close()
	c.ts = nil
	c.started = false
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset serves a fresh server with every mounted route, dropping rate
// limiter state. The base URL changes.
func (c *Component) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return fmt.Errorf("server-test: not started")
	}
	c.ts.Close()
	c.srv = c.build()
	c.ts = httptest.NewServer(c.srv.Handler())
	return nil
}

// Snapshot records how many routes are mounted.
func (c *Component) Snapshot(_ context.Context) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.routes), nil
}

// Restore unmounts routes added after the snapshot and resets the server.
func (c *Component) Restore(ctx context.Context, snap any) error {
	n, ok := snap.(int)
	if !ok {
		return fmt.Errorf("server-test: snapshot is %T, want int", snap)
	}
	c.mu.Lock()
	if n < len(c.routes) {
		c.routes = c.routes[:n]
	}
	c.mu.Unlock()
	return c.Reset(ctx)
}
