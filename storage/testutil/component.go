package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/storage"
	"github.com/kbukum/slideshow/testutil"
)

type memFile struct {
	data        []byte
	contentType string
	modTime     time.Time
}

// Component is an in-memory storage backend with test lifecycle hooks.
type Component struct {
	mu        sync.RWMutex
	files     map[string]*memFile
	started   bool
	failNext  error
	listCalls int
}

var _ component.Component = (*Component)(nil)
var _ testutil.TestComponent = (*Component)(nil)
var _ storage.Storage = (*Component)(nil)

// NewComponent creates an empty store. Put works before Start.
func NewComponent() *Component {
	return &Component{files: make(map[string]*memFile)}
}

// Storage returns the store, or nil before Start.
func (c *Component) Storage() storage.Storage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.started {
		return nil
	}
	return c
}

// Put stores data under key. The content type is derived from the extension.
func (c *Component) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[strings.TrimLeft(key, "/")] = &memFile{
		data:        append([]byte(nil), data...),
		contentType: mime.TypeByExtension(path.Ext(key)),
		modTime:     time.Now(),
	}
}

// Delete removes key if present.
func (c *Component) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, strings.TrimLeft(key, "/"))
}

// FailNext makes the next storage call return err.
func (c *Component) FailNext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

// ListCalls reports how many times List has been called.
func (c *Component) ListCalls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listCalls
}

func (c *Component) takeFailure() error {
	err := c.failNext
	c.failNext = nil
	return err
}

func (c *Component) Name() string { return "storage-test" }

func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("component already started")
	}
	c.started = true
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
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

func (c *Component) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]*memFile)
	c.failNext = nil
	c.listCalls = 0
	return nil
}

func (c *Component) Snapshot(_ context.Context) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[string]*memFile, len(c.files))
	for k, v := range c.files {
		cp := *v
		cp.data = append([]byte(nil), v.data...)
		snap[k] = &cp
	}
	return snap, nil
}

func (c *Component) Restore(_ context.Context, snap any) error {
	s, ok := snap.(map[string]*memFile)
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected map[string]*memFile, got %T", snap)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = make(map[string]*memFile, len(s))
	for k, v := range s {
		cp := *v
		cp.data = append([]byte(nil), v.data...)
		c.files[k] = &cp
	}
	return nil
}

// List returns direct children of prefix. Deeper keys collapse into a
// single directory entry.
func (c *Component) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listCalls++
	if err := c.takeFailure(); err != nil {
		return nil, err
	}

	seenDirs := make(map[string]bool)
	var files []storage.FileInfo
	for key, f := range c.files {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			dir := prefix + rest[:i+1]
			if !seenDirs[dir] {
				seenDirs[dir] = true
				files = append(files, storage.FileInfo{Path: dir, IsDir: true})
			}
			continue
		}
		files = append(files, storage.FileInfo{
			Path:         key,
			Size:         int64(len(f.data)),
			LastModified: f.modTime,
			ContentType:  f.contentType,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (c *Component) Download(_ context.Context, key string) (io.ReadCloser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return nil, err
	}
	f, ok := c.files[strings.TrimLeft(key, "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func (c *Component) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure(); err != nil {
		return false, err
	}
	_, ok := c.files[strings.TrimLeft(key, "/")]
	return ok, nil
}

func (c *Component) URL(_ context.Context, key string) (string, error) {
	return "memory://" + strings.TrimLeft(key, "/"), nil
}
