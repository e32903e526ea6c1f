package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/slideshow/component"
)

// Component runs a Client under the component lifecycle.
type Component struct {
	client *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(client *Client) *Component {
	return &Component{client: client}
}

func (c *Component) Client() *Client { return c.client }

func (c *Component) Name() string { return "redis" }

// Start verifies connectivity so a misconfigured address fails fast.
func (c *Component) Start(ctx context.Context) error {
	if err := c.client.Ping(ctx); err != nil {
		return fmt.Errorf("redis start: %w", err)
	}
	c.client.log.Info("redis connected", map[string]interface{}{"addr": c.client.cfg.Addr, "db": c.client.cfg.DB})
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	return c.client.Close()
}

// Health pings the server. An unreachable Redis only degrades the service,
// listings fall back to storage.
func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d", c.client.cfg.Addr, c.client.cfg.DB, c.client.cfg.PoolSize),
	}
}
