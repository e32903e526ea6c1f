package slideshow

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/resilience"
	"github.com/kbukum/slideshow/source"
)

// ErrNotStarted is returned by Advance before Run has loaded a playlist.
var ErrNotStarted = errors.New("slideshow: playlist not loaded")

// Option customises a Rotator.
type Option func(*Rotator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *logger.Logger) Option { return func(r *Rotator) { r.log = l } }

// WithMetrics records slides, preload failures and skips.
func WithMetrics(m *observability.Metrics) Option { return func(r *Rotator) { r.metrics = m } }

// WithClock replaces time.Now, used for cache-busting and ShownAt.
func WithClock(now func() time.Time) Option { return func(r *Rotator) { r.now = now } }

// WithRand replaces the random source used for cache-busting.
func WithRand(rnd func(n int64) int64) Option { return func(r *Rotator) { r.rnd = rnd } }

// Rotator fetches the playlist once and cycles through it on a timer,
// committing an image to the display only after it preloads.
type Rotator struct {
	src       source.Source
	preloader Preloader
	display   Display
	cfg       Config
	log       *logger.Logger
	metrics   *observability.Metrics
	now       func() time.Time
	rnd       func(n int64) int64

	mu      sync.RWMutex
	images  []source.Image
	index   int
	current Slide
	shown   bool
	lastErr error
}

// NewRotator creates a rotator. cfg is defaulted and validated.
func NewRotator(src source.Source, preloader Preloader, display Display, cfg Config, opts ...Option) (*Rotator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Rotator{
		src:       src,
		preloader: preloader,
		display:   display,
		cfg:       cfg,
		log:       logger.NewNop(),
		now:       time.Now,
		rnd:       rand.Int64N,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("slideshow")
	return r, nil
}

// Run fetches the playlist, shows index 0 and then advances every
// interval until ctx is done. An empty or unreadable playlist puts the
// display in its error state and returns without starting the timer.
func (r *Rotator) Run(ctx context.Context) error {
	images, err := r.src.Images(ctx)
	if err != nil {
		r.fail(err, fmt.Sprintf("Failed to load the image list: %s", apperrors.From(err).Message))
		return err
	}
	if len(images) == 0 {
		err := apperrors.EmptyGallery(r.src.Name())
		r.fail(err, err.Message)
		return err
	}

	r.mu.Lock()
	r.images = images
	r.index = 0
	r.mu.Unlock()
	r.log.Info("playlist loaded", logger.Fields(logger.FieldSource, r.src.Name(), logger.FieldTotal, len(images)))

	if err := r.load(ctx, 0); err != nil && ctx.Err() != nil {
		return nil
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Advance(ctx); err != nil && ctx.Err() != nil {
				return nil
			}
		}
	}
}

// Advance moves to (index+1) mod n and loads that image.
func (r *Rotator) Advance(ctx context.Context) error {
	r.mu.Lock()
	n := len(r.images)
	if n == 0 {
		r.mu.Unlock()
		return ErrNotStarted
	}
	next := (r.index + 1) % n
	r.mu.Unlock()
	return r.load(ctx, next)
}

// Current returns the last committed slide.
func (r *Rotator) Current() (Slide, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.shown
}

// Images returns a copy of the loaded playlist.
func (r *Rotator) Images() []source.Image {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]source.Image(nil), r.images...)
}

// LastError returns the most recent failure, cleared by a successful show.
func (r *Rotator) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// load tries start, then each following index, until one image preloads.
// At most n images are tried, so a fully broken playlist cannot spin.
func (r *Rotator) load(ctx context.Context, start int) error {
	r.mu.RLock()
	images := r.images
	r.mu.RUnlock()
	n := len(images)

	for skip := range n {
		i := (start + skip) % n
		r.mu.Lock()
		r.index = i
		r.mu.Unlock()

		r.display.Loading(i, n)
		pre, bust, err := r.preload(ctx, images[i])
		if err == nil {
			r.commit(i, n, images[i], withQuery(images[i].ViewURL(), bust), pre)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.metrics.RecordSkip(ctx, r.src.Name())
		r.log.Warn("image failed, moving to next", logger.MergeWithError(
			logger.Fields(logger.FieldIndex, i, logger.FieldImage, images[i].Name), err))
	}

	err := apperrors.PreloadFailed("", fmt.Errorf("all %d images failed to load", n))
	r.fail(err, fmt.Sprintf("All %d images failed to load.", n))
	return err
}

// preload makes the first attempt plus RetryCount retries, each with a
// fresh cache-busting parameter. The returned string is the parameter of
// the successful attempt, so viewers load the exact URL that was checked.
func (r *Rotator) preload(ctx context.Context, img source.Image) (Preloaded, string, error) {
	retryCfg := resilience.RetryConfig{
		MaxAttempts:    r.cfg.attempts(),
		InitialBackoff: r.cfg.RetryDelay,
		MaxBackoff:     r.cfg.RetryDelay,
		BackoffFactor:  1,
		// Per-attempt timeouts are retried; only the rotator's own ctx stops it.
		RetryIf: func(error) bool { return ctx.Err() == nil },
		OnRetry: func(attempt int, err error, _ time.Duration) {
			r.log.Debug("retrying image", logger.MergeWithError(
				logger.Fields(logger.FieldImage, img.Name, logger.FieldAttempt, attempt+1), err))
		},
	}
	var bust string
	pre, err := resilience.Retry(ctx, retryCfg, func() (Preloaded, error) {
		bust = ""
		if !r.cfg.NoCacheBust {
			bust = cacheBustParam(r.now(), r.rnd)
		}
		pre, err := r.preloader.Preload(ctx, withQuery(img.URL, bust))
		if err != nil {
			r.metrics.RecordPreloadFailure(ctx, r.src.Name())
		}
		return pre, err
	})
	return pre, bust, err
}

// commit publishes viewURL, which may differ from the preloaded address
// when viewers reach the images through another origin.
func (r *Rotator) commit(index, total int, img source.Image, viewURL string, pre Preloaded) {
	s := Slide{
		Index:       index,
		Total:       total,
		Name:        img.Name,
		URL:         viewURL,
		ContentType: pre.ContentType,
		ShownAt:     r.now(),
	}
	r.mu.Lock()
	r.current, r.shown, r.lastErr = s, true, nil
	r.mu.Unlock()
	r.display.Show(s)
	r.metrics.RecordSlideShown(context.Background(), r.src.Name())
}

func (r *Rotator) fail(err error, message string) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
	r.display.Error(message)
	r.log.Error("slideshow failed", logger.MergeWithError(logger.Fields(logger.FieldSource, r.src.Name()), err))
}
