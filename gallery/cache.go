package gallery

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/slideshow/logger"
)

type cacheEntry struct {
	names   []string
	expires time.Time
}

// Cache memoizes listings for a TTL. Concurrent misses on the same prefix
// share one storage call.
type Cache struct {
	next  ImageLister
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	shared SharedStore
	log    *logger.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

var _ ImageLister = (*Cache)(nil)

// SharedStore keeps listings for every replica of the service. A failing
// store never fails a listing; the Cache falls back to storage.
type SharedStore interface {
	Load(ctx context.Context, prefix string) (names []string, ok bool, err error)
	Save(ctx context.Context, prefix string, names []string, ttl time.Duration) error
	// Delete drops the given prefixes, or every listing when none are given.
	Delete(ctx context.Context, prefixes ...string) error
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithSharedStore adds a second cache level consulted on local misses.
func WithSharedStore(s SharedStore, log *logger.Logger) CacheOption {
	return func(c *Cache) {
		c.shared = s
		if log != nil {
			c.log = log.WithComponent("gallery-cache")
		}
	}
}

// NewCache wraps next. A ttl of zero or less disables caching but keeps
// request de-duplication.
func NewCache(next ImageLister, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{next: next, ttl: ttl, now: time.Now, log: logger.NewNop(), entries: make(map[string]cacheEntry)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns a cached listing or fetches a fresh one.
func (c *Cache) List(ctx context.Context, prefix string) ([]string, error) {
	if p, err := NormalizePrefix(prefix); err == nil {
		prefix = p
	}
	if names, ok := c.lookup(prefix); ok {
		return names, nil
	}

	ch := c.group.DoChan(prefix, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if names, ok := c.loadShared(ctx, prefix); ok {
			c.store(prefix, names)
			return names, nil
		}
		names, err := c.next.List(ctx, prefix)
		if err != nil {
			return nil, err
		}
		c.store(prefix, names)
		c.saveShared(ctx, prefix, names)
		return names, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]string)), nil
	}
}

// Invalidate drops the given prefixes, or everything when none are given.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	if len(prefixes) == 0 {
		c.entries = make(map[string]cacheEntry)
	}
	for _, p := range prefixes {
		delete(c.entries, p)
	}
	c.mu.Unlock()

	if c.shared != nil {
		if err := c.shared.Delete(context.Background(), prefixes...); err != nil {
			c.log.Warn("shared listing cache invalidation failed", logger.MergeWithError(nil, err))
		}
	}
}

func (c *Cache) store(prefix string, names []string) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[prefix] = cacheEntry{names: names, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *Cache) loadShared(ctx context.Context, prefix string) ([]string, bool) {
	if c.shared == nil || c.ttl <= 0 {
		return nil, false
	}
	names, ok, err := c.shared.Load(ctx, prefix)
	if err != nil {
		c.log.Warn("shared listing cache unavailable", logger.MergeWithError(logger.Fields("prefix", prefix), err))
		return nil, false
	}
	return names, ok
}

func (c *Cache) saveShared(ctx context.Context, prefix string, names []string) {
	if c.shared == nil || c.ttl <= 0 {
		return
	}
	if err := c.shared.Save(ctx, prefix, names, c.ttl); err != nil {
		c.log.Warn("shared listing cache write failed", logger.MergeWithError(logger.Fields("prefix", prefix), err))
	}
}

func (c *Cache) lookup(prefix string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[prefix]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return clone(e.names), true
}

func clone(names []string) []string {
	return append(make([]string, 0, len(names)), names...)
}
