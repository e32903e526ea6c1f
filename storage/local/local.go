package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(_ storage.Config, providerCfg any, log *logger.Logger) (storage.Storage, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("local: expected *local.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		s, err := NewStorage(c.BasePath)
		if err != nil {
			return nil, err
		}
		log.Debug("local storage ready", logger.Fields("base_path", s.BasePath()))
		return s, nil
	})
}

// Storage implements storage.Storage over a directory.
type Storage struct {
	basePath string
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage opens basePath, which must exist and be a directory.
func NewStorage(basePath string) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("local: resolve base path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("local: stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local: base path %s is not a directory", abs)
	}
	return &Storage{basePath: abs}, nil
}

// BasePath returns the absolute storage root.
func (s *Storage) BasePath() string {
	return s.basePath
}

// FullPath maps a slash-separated key to a filesystem path. ".." segments
// cannot climb above the root.
func (s *Storage) FullPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(path.Clean("/"+key)))
}

// List reads one directory level. A missing directory lists as empty.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	dir := s.FullPath(prefix)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []storage.FileInfo{}, nil
		}
		return nil, fmt.Errorf("local: list %s: %w", prefix, err)
	}

	keyPrefix := cleanPrefix(prefix)
	files := make([]storage.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		fi := storage.FileInfo{
			Path:         keyPrefix + e.Name(),
			LastModified: info.ModTime(),
		}
		if e.IsDir() {
			fi.Path += "/"
			fi.IsDir = true
		} else {
			fi.Size = info.Size()
			fi.ContentType = contentType(e.Name())
		}
		files = append(files, fi)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Download opens the file at key.
func (s *Storage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.FullPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("local: open %s: %w", key, err)
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", storage.ErrNotFound, key)
	}
	return f, nil
}

// Exists reports whether a regular file exists at key.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	info, err := os.Stat(s.FullPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("local: stat %s: %w", key, err)
	}
	return !info.IsDir(), nil
}

// URL returns a file:// URL.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(s.FullPath(key))}
	return u.String(), nil
}

// cleanPrefix returns prefix as a relative key ending in "/", or "" for the root.
func cleanPrefix(prefix string) string {
	p := path.Clean("/" + prefix)
	if p == "/" {
		return ""
	}
	return p[1:] + "/"
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
