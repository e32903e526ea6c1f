package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/kbukum/slideshow/httpclient"
	"github.com/kbukum/slideshow/httpclient/rest"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderSupabase, func(cfg storage.Config, providerCfg any, log *logger.Logger) (storage.Storage, error) {
		c, ok := providerCfg.(*Config)
		if !ok || c == nil {
			return nil, fmt.Errorf("supabase: expected *supabase.Config, got %T", providerCfg)
		}
		s, err := NewStorage(*c, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		log.Debug("supabase storage ready", logger.Fields("bucket", c.Bucket, "url", c.URL))
		return s, nil
	})
}

// Storage implements storage.Storage over the Supabase Storage REST API.
type Storage struct {
	client   *rest.Client
	baseURL  string
	bucket   string
	pageSize int
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage creates a Supabase storage client.
func NewStorage(cfg Config, timeout time.Duration) (*Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := cfg.URL + "/storage/v1"
	client, err := rest.New(httpclient.Config{
		BaseURL: base,
		Timeout: timeout,
		Headers: map[string]string{"apikey": cfg.Key},
		Auth:    httpclient.BearerAuth(cfg.Key),
		Retry:   httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	return &Storage{client: client, baseURL: base, bucket: cfg.Bucket, pageSize: cfg.PageSize}, nil
}

type listRequest struct {
	Prefix string `json:"prefix"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	SortBy struct {
		Column string `json:"column"`
		Order  string `json:"order"`
	} `json:"sortBy"`
}

type listItem struct {
	Name      string  `json:"name"`
	ID        *string `json:"id"`
	UpdatedAt string  `json:"updated_at"`
	Metadata  *struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimetype"`
	} `json:"metadata"`
}

// List returns the direct children of prefix. Supabase reports folders as
// entries without an id.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.FileInfo, error) {
	folder := strings.Trim(prefix, "/")
	req := listRequest{Prefix: folder, Limit: s.pageSize}
	req.SortBy.Column = "name"
	req.SortBy.Order = "asc"

	var files []storage.FileInfo
	for {
		resp, err := rest.Post[[]listItem](ctx, s.client, "/object/list/"+s.bucket, req)
		if err != nil {
			return nil, fmt.Errorf("supabase: list %s: %w", prefix, err)
		}
		for _, item := range resp.Data {
			files = append(files, toFileInfo(folder, item))
		}
		if len(resp.Data) < s.pageSize {
			break
		}
		req.Offset += len(resp.Data)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func toFileInfo(folder string, item listItem) storage.FileInfo {
	p := item.Name
	if folder != "" {
		p = folder + "/" + item.Name
	}
	if item.ID == nil {
		return storage.FileInfo{Path: p + "/", IsDir: true}
	}
	fi := storage.FileInfo{Path: p}
	if item.Metadata != nil {
		fi.Size = item.Metadata.Size
		fi.ContentType = item.Metadata.MimeType
	}
	if t, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
		fi.LastModified = t
	}
	return fi
}

// Download fetches the object. The body is buffered by the HTTP client and
// bounded by its MaxBodyBytes.
func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.HTTP().Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   s.objectPath(key),
	})
	if err != nil {
		if httpclient.IsNotFound(err) || isMissingObject(resp) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("supabase: download %s: %w", key, err)
	}
	return io.NopCloser(bytes.NewReader(resp.Body)), nil
}

// Exists issues a HEAD request against the object.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HTTP().Do(ctx, httpclient.Request{
		Method: http.MethodHead,
		Path:   s.objectPath(key),
	})
	if err == nil {
		return true, nil
	}
	if httpclient.IsNotFound(err) {
		return false, nil
	}
	var herr *httpclient.Error
	if errors.As(err, &herr) && herr.StatusCode == http.StatusBadRequest {
		// Missing objects come back as 400 on some Supabase versions.
		return false, nil
	}
	return false, fmt.Errorf("supabase: head %s: %w", key, err)
}

// URL returns the public URL of the object. The bucket must be public for
// it to be fetchable without a token.
func (s *Storage) URL(_ context.Context, key string) (string, error) {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(key, "/")), nil
}

func (s *Storage) objectPath(key string) string {
	return "/object/" + s.bucket + "/" + strings.TrimLeft(key, "/")
}

// isMissingObject recognises the JSON error body Supabase returns with a
// 400 status for unknown keys.
func isMissingObject(resp *httpclient.Response) bool {
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		return false
	}
	return bytes.Contains(resp.Body, []byte(`"not_found"`)) || bytes.Contains(resp.Body, []byte("Object not found"))
}
