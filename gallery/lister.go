package gallery

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/storage"
)

// ImageLister returns the image names directly under a prefix.
type ImageLister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}

// Lister reads a storage folder and turns it into a sorted list of image
// basenames.
type Lister struct {
	store    storage.Storage
	provider string
	filter   *Filter
	sorted   bool
	tag      language.Tag
	metrics  *observability.Metrics
	log      *logger.Logger
}

var _ ImageLister = (*Lister)(nil)

// NewLister creates a lister over store. provider names the backend in
// errors and logs.
func NewLister(store storage.Storage, provider string, cfg Config, metrics *observability.Metrics, log *logger.Logger) (*Lister, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filter, err := NewFilter(cfg.Extensions, cfg.Include)
	if err != nil {
		return nil, err
	}
	tag, _ := cfg.Tag()
	if log == nil {
		log = logger.NewNop()
	}
	return &Lister{
		store:    store,
		provider: provider,
		filter:   filter,
		sorted:   !cfg.Unsorted,
		tag:      tag,
		metrics:  metrics,
		log:      log.WithComponent("gallery"),
	}, nil
}

// Filter returns the name filter in use.
func (l *Lister) Filter() *Filter { return l.filter }

// List returns the basenames of images directly under prefix. Directory
// entries, nested keys and names failing the filter are dropped.
func (l *Lister) List(ctx context.Context, raw string) (names []string, err error) {
	prefix, err := NormalizePrefix(raw)
	if err != nil {
		return nil, apperrors.InvalidPrefix(raw, err.Error())
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanGalleryList, attribute.String("prefix", prefix))
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		l.metrics.RecordListing(ctx, prefix, status, time.Since(start))
		observability.EndSpan(span, err)
	}()

	files, err := l.store.List(ctx, prefix)
	if err != nil {
		l.log.Error("storage listing failed", logger.MergeWithError(logger.Fields(logger.FieldPrefix, prefix), err))
		return nil, apperrors.StorageError(l.provider, err)
	}

	names = make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir || strings.HasSuffix(f.Path, "/") {
			continue
		}
		name := strings.TrimPrefix(f.Path, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		if !l.filter.Match(name) {
			continue
		}
		names = append(names, name)
	}
	if l.sorted {
		SortNames(names, l.tag)
	}

	l.log.Debug("listed images", logger.Fields(logger.FieldPrefix, prefix, logger.FieldTotal, len(names)))
	return names, nil
}
