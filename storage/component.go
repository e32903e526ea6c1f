package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/logger"
)

const healthProbePath = ".health"

// Component wraps a backend in the component lifecycle.
type Component struct {
	cfg         Config
	providerCfg any
	log         *logger.Logger

	mu      sync.RWMutex
	storage Storage
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a storage component. The backend is built on Start.
func NewComponent(cfg Config, providerCfg any, log *logger.Logger) *Component {
	return &Component{cfg: cfg, providerCfg: providerCfg, log: log}
}

// NewComponentFrom wraps an already-built backend.
func NewComponentFrom(s Storage, cfg Config, log *logger.Logger) *Component {
	return &Component{cfg: cfg, storage: s, log: log}
}

// Storage returns the backend, or nil before Start.
func (c *Component) Storage() Storage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storage
}

func (c *Component) Name() string { return "storage" }

func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storage != nil {
		return nil
	}
	s, err := New(c.cfg, c.providerCfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	return nil
}

// Health probes the backend with an existence check.
func (c *Component) Health(ctx context.Context) component.Health {
	s := c.Storage()
	if s == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if _, err := s.Exists(ctx, healthProbePath); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("health probe failed: %v", err)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// BucketDescriber is implemented by provider configs that name a bucket.
type BucketDescriber interface {
	GetBucket() string
}

func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	if b, ok := c.providerCfg.(BucketDescriber); ok && b.GetBucket() != "" {
		details += " bucket=" + b.GetBucket()
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
