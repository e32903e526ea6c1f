package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/resilience"
)

// RateLimitConfig limits requests per client. Zero RequestsPerMinute
// disables the limiter.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute" validate:"gte=0"`
	Burst             int `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
	// KeyFunc extracts the limiter key. Defaults to the client IP.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
}

// maxIdle is how long an unused client bucket is kept.
const maxIdle = 10 * time.Minute

// RateLimit applies a token bucket per key and answers 429 with the failure
// body when it runs dry.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(cfg.RequestsPerMinute/6, 1)
	}

	l := &keyedLimiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
	return func(c *gin.Context) {
		if !l.allow(cfg.KeyFunc(c)) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.RateLimited("this endpoint").ToResponse())
			return
		}
		c.Next()
	}
}

type bucket struct {
	limiter  *resilience.RateLimiter
	lastSeen time.Time
}

type keyedLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	sweeps  int
}

func (l *keyedLimiter) allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name:  "http:" + key,
			Rate:  float64(l.cfg.RequestsPerMinute) / 60,
			Burst: l.cfg.Burst,
		})}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.sweeps++
	if l.sweeps >= 1024 {
		l.sweeps = 0
		for k, other := range l.buckets {
			if now.Sub(other.lastSeen) > maxIdle {
				delete(l.buckets, k)
			}
		}
	}
	l.mu.Unlock()
	return b.limiter.Allow()
}
