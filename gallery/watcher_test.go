package gallery

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/slideshow/component"
)

type countingInvalidator struct{ n atomic.Int32 }

func (c *countingInvalidator) Invalidate(...string) { c.n.Add(1) }

func TestWatcher_InvalidatesOnChange(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "images"), 0o750); err != nil {
		t.Fatal(err)
	}
	inv := &countingInvalidator{}
	w := NewWatcher(root, []string{"images/", "missing/"}, inv, nil)
	ctx := context.Background()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = w.Stop(ctx) }()
	if h := w.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health = %+v", h)
	}

	if err := os.WriteFile(filepath.Join(root, "images", "new.jpg"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for inv.n.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if inv.n.Load() == 0 {
		t.Fatal("cache was not invalidated")
	}

	if err := w.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if h := w.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health after stop = %+v", h)
	}
}
