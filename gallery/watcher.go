package gallery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/logger"
)

// Invalidator drops cached listings.
type Invalidator interface {
	Invalidate(prefixes ...string)
}

// Watcher invalidates cached listings when files under the watched local
// folders change. It is a component so the registry owns its goroutine.
type Watcher struct {
	root     string
	prefixes []string
	inv      Invalidator
	log      *logger.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	done    chan struct{}
	lastErr error
}

var _ component.Component = (*Watcher)(nil)

// NewWatcher watches root/prefix for each prefix and calls inv on change.
func NewWatcher(root string, prefixes []string, inv Invalidator, log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Watcher{root: root, prefixes: prefixes, inv: inv, log: log.WithComponent("gallery-watcher")}
}

func (w *Watcher) Name() string { return "gallery-watcher" }

func (w *Watcher) Start(_ context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("gallery watcher: %w", err)
	}
	for _, p := range w.prefixes {
		dir := filepath.Join(w.root, filepath.FromSlash(p))
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			w.log.Warn("watched folder does not exist", logger.Fields(logger.FieldPrefix, p))
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return fmt.Errorf("gallery watcher: watch %s: %w", dir, err)
		}
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	go w.loop(fsw, w.done)
	w.log.Info("watching image folders", logger.Fields("root", w.root, "prefixes", w.prefixes))
	return nil
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write) {
				w.inv.Invalidate()
				w.log.Debug("image folder changed", logger.Fields("path", ev.Name, "op", ev.Op.String()))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.lastErr = err
			w.mu.Unlock()
			w.log.Warn("watch error", logger.ErrorFields("watch", err))
		}
	}
}

func (w *Watcher) Stop(_ context.Context) error {
	w.mu.Lock()
	fsw, done := w.fsw, w.done
	w.fsw, w.done = nil, nil
	w.mu.Unlock()
	if fsw == nil {
		return nil
	}
	err := fsw.Close()
	<-done
	return err
}

func (w *Watcher) Health(_ context.Context) component.Health {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.fsw == nil:
		return component.Health{Name: w.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	case w.lastErr != nil:
		return component.Health{Name: w.Name(), Status: component.StatusDegraded, Message: w.lastErr.Error()}
	default:
		return component.Health{Name: w.Name(), Status: component.StatusHealthy}
	}
}
