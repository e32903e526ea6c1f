package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/slideshow/bootstrap"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/slideshow"
	"github.com/kbukum/slideshow/source"
)

var (
	rotateSource   string
	rotateInterval time.Duration
)

func runRotate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if rotateSource != "" {
		cfg.Source.Type = rotateSource
	}
	if rotateInterval > 0 {
		cfg.Slideshow.Interval = rotateInterval
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(io.Discard))
	if err != nil {
		return err
	}
	rotator, err := setupRotate(app)
	if err != nil {
		return err
	}
	return app.RunTask(cmd.Context(), rotator.Run)
}

// setupRotate builds a rotator that reports to the log only.
func setupRotate(app *bootstrap.App[*AppConfig]) (*slideshow.Rotator, error) {
	cfg := app.Cfg
	log := app.Logger

	if err := app.RegisterComponent(observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment, log)); err != nil {
		return nil, err
	}
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		return nil, err
	}
	preloader, err := slideshow.NewHTTPPreloader(cfg.Slideshow.PreloadTimeout, cfg.Slideshow.MaxImageBytes)
	if err != nil {
		return nil, err
	}
	return slideshow.NewRotator(src, preloader, slideshow.NewLogDisplay(log), cfg.Slideshow,
		slideshow.WithLogger(log), slideshow.WithMetrics(metrics))
}
