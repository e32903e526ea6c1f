package slideshow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/slideshow/component"
)

// Component runs a Rotator in the background for the life of the service.
type Component struct {
	rotator *Rotator

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	runErr error
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

func NewComponent(r *Rotator) *Component {
	return &Component{rotator: r}
}

func (c *Component) Rotator() *Rotator { return c.rotator }

func (c *Component) Name() string { return "slideshow" }

// Start launches Run. The rotator keeps its own context so the caller's
// start-up deadline does not stop it.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		err := c.rotator.Run(ctx)
		c.mu.Lock()
		c.runErr = err
		c.mu.Unlock()
	}(c.done)
	return nil
}

// Stop cancels the rotator and waits for it to return, or for ctx.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("slideshow stop: %w", ctx.Err())
	}
}

// Health is unhealthy when the playlist could not be loaded and degraded
// while the last tick failed.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	runErr := c.runErr
	c.mu.Unlock()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: runErr.Error()}
	}
	if err := c.rotator.LastError(); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusDegraded, Message: err.Error()}
	}
	if s, ok := c.rotator.Current(); ok {
		return component.Health{Name: c.Name(), Status: component.StatusHealthy,
			Message: fmt.Sprintf("showing %d/%d %s", s.Index+1, s.Total, s.Name)}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: "starting"}
}

func (c *Component) Describe() component.Description {
	cfg := c.rotator.cfg
	return component.Description{
		Name:    "Slideshow",
		Type:    "rotator",
		Details: fmt.Sprintf("source=%s interval=%s retries=%d", c.rotator.src.Name(), cfg.Interval, cfg.attempts()-1),
	}
}
