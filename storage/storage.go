package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrNotFound is returned (wrapped) when an object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// FileInfo describes one entry of a listing.
type FileInfo struct {
	// Path is the full key relative to the storage root. Directory entries
	// end with "/".
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
	IsDir        bool
}

// Name returns the last path element without a trailing slash.
func (f FileInfo) Name() string {
	p := strings.TrimSuffix(f.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// Storage is the read-only view of an object store.
type Storage interface {
	// List returns the entries directly under prefix, one level deep.
	// Sub-folders are reported with IsDir set.
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// Download opens the object at path. The caller closes the reader.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a URL the object can be fetched from directly.
	URL(ctx context.Context, path string) (string, error)
}
