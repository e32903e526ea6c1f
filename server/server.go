package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/server/endpoint"
	"github.com/kbukum/slideshow/server/middleware"
)

// Server is the HTTP server: a gin engine mounted on a ServeMux, wrapped in
// server-level middleware and h2c so browsers and HTTP/2 clients share one
// port.
type Server struct {
	httpServer  *http.Server
	engine      *gin.Engine
	mux         *http.ServeMux
	middlewares []middleware.Middleware
	config      Config
	log         *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. No middleware or routes are applied yet.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if gin.Mode() != gin.TestMode {
		if log.GetLogger().GetLevel() <= zerolog.DebugLevel {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	s := &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// GinEngine returns the gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handle mounts an http.Handler on the root ServeMux next to gin.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", map[string]interface{}{"pattern": pattern})
}

// Use adds server-level middleware. The first added is the outermost.
func (s *Server) Use(mws ...middleware.Middleware) {
	s.middlewares = append(s.middlewares, mws...)
}

// Handler returns the composed handler: h2c, middleware, mux.
func (s *Server) Handler() http.Handler {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          s.config.IdleTimeout,
	}
	return h2c.NewHandler(middleware.Chain(s.middlewares...)(s.mux), h2s)
}

// OnShutdown registers fn to run when Stop begins. Long-lived streams use
// it to end themselves so Shutdown does not wait on them.
func (s *Server) OnShutdown(fn func()) {
	s.httpServer.RegisterOnShutdown(fn)
}

// Start binds the port and serves in a goroutine. It returns once the
// listener is bound.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.httpServer.Handler = s.Handler()

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Server error", map[string]interface{}{"error": err.Error()})
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{"addr": ln.Addr().String()})
	return nil
}

// Stop shuts the server down, closing remaining connections once
// ShutdownTimeout passes.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		_ = s.httpServer.Close()
		s.log.Error("Server shutdown error", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// ApplyMiddleware installs the standard stack. Recovery, request id, CORS
// and request logging run for every request at server level; request
// metrics run inside gin where the route template is known.
func (s *Server) ApplyMiddleware(metrics *observability.Metrics) {
	s.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.config.CORS),
		middleware.RequestLogger(s.log),
	)
	s.engine.Use(middleware.Metrics(metrics))
	s.engine.NoRoute(func(c *gin.Context) {
		RespondWithError(c, apperrors.NotFound("route", c.Request.URL.Path))
	})
}

// RateLimited returns the per-client limiter configured for this server.
func (s *Server) RateLimited() gin.HandlerFunc {
	return middleware.RateLimit(s.config.RateLimit)
}

// RegisterDefaultEndpoints registers /health, /ready, /info and /version.
func (s *Server) RegisterDefaultEndpoints(info endpoint.ServiceInfo, checker endpoint.HealthChecker, describer endpoint.Describer) {
	s.engine.GET("/health", endpoint.Health(info, checker))
	s.engine.GET("/ready", endpoint.Readiness(checker))
	s.engine.GET("/info", endpoint.Info(info, describer))
	s.engine.GET("/version", endpoint.Version())
}

// ApplyDefaults applies the standard middleware and default endpoints.
func (s *Server) ApplyDefaults(metrics *observability.Metrics, info endpoint.ServiceInfo, checker endpoint.HealthChecker, describer endpoint.Describer) {
	s.ApplyMiddleware(metrics)
	s.RegisterDefaultEndpoints(info, checker, describer)
}
