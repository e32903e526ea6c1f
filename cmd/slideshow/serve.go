package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/slideshow/bootstrap"
	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/observability"
	"github.com/kbukum/slideshow/redis"
	"github.com/kbukum/slideshow/server"
	"github.com/kbukum/slideshow/server/endpoint"
	"github.com/kbukum/slideshow/slideshow"
	"github.com/kbukum/slideshow/source"
	"github.com/kbukum/slideshow/sse"
	"github.com/kbukum/slideshow/storage"
	"github.com/kbukum/slideshow/web"
)

const eventsPath = "/events"

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	if err := setupServe(app); err != nil {
		return err
	}
	return app.Run(cmd.Context())
}

// setupServe registers every component of the serve command. Components
// start in the order registered: storage and the event hub come up before
// the HTTP server, and the rotator last so a listing source pointing at
// this process can reach it.
func setupServe(app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	log := app.Logger

	if err := app.RegisterComponent(observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment, log)); err != nil {
		return err
	}
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	store, err := storage.New(cfg.Storage.Config, cfg.Storage.ProviderConfig(), log)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(storage.NewComponentFrom(store, cfg.Storage.Config, log)); err != nil {
		return err
	}

	lister, err := gallery.NewLister(store, cfg.Storage.Provider, cfg.Gallery, metrics, log)
	if err != nil {
		return err
	}
	var cacheOpts []gallery.CacheOption
	if cfg.Redis.Enabled {
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return err
		}
		if err := app.RegisterComponent(redis.NewComponent(client)); err != nil {
			return err
		}
		cacheOpts = append(cacheOpts, gallery.WithSharedStore(redis.NewListingStore(client, cfg.Redis.KeyPrefix), log))
	}
	cache := gallery.NewCache(lister, cfg.Gallery.CacheTTL, cacheOpts...)
	if cfg.Gallery.Watch {
		if cfg.Storage.Provider == storage.ProviderLocal {
			if err := app.RegisterComponent(gallery.NewWatcher(cfg.Storage.Local.BasePath, cfg.Gallery.AllowedPrefixes, cache, log)); err != nil {
				return err
			}
		} else {
			log.Warn("gallery.watch ignored for non-local storage", logger.Fields("provider", cfg.Storage.Provider))
		}
	}
	galleryHandler, err := gallery.NewHandler(cache, store, cfg.Gallery, log)
	if err != nil {
		return err
	}

	hub := sse.NewHub(log, slideshow.EventSlide)
	if err := app.RegisterComponent(sse.NewComponent(hub, eventsPath)); err != nil {
		return err
	}

	src, err := source.New(cfg.Source)
	if err != nil {
		return err
	}
	preloader, err := slideshow.NewHTTPPreloader(cfg.Slideshow.PreloadTimeout, cfg.Slideshow.MaxImageBytes)
	if err != nil {
		return err
	}
	display := slideshow.MultiDisplay{slideshow.NewBroadcastDisplay(hub), slideshow.NewLogDisplay(log)}
	rotator, err := slideshow.NewRotator(src, preloader, display, cfg.Slideshow,
		slideshow.WithLogger(log), slideshow.WithMetrics(metrics))
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.OnShutdown(hub.Stop)
	srv.ApplyMiddleware(metrics)

	engine := srv.GinEngine()
	api := engine.Group("", srv.RateLimited())
	galleryHandler.Register(api)
	slideshow.NewHandler(rotator).Register(api)
	engine.GET(eventsPath, sse.Handler(hub))
	web.Register(engine)

	srv.RegisterDefaultEndpoints(endpoint.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, app.Components.HealthAll, describeAll(app.Components))

	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}
	return app.RegisterComponent(slideshow.NewComponent(rotator))
}

// describeAll lists the descriptions of registered components that
// provide one.
func describeAll(reg *component.Registry) endpoint.Describer {
	return func() []component.Description {
		var out []component.Description
		for _, c := range reg.All() {
			if d, ok := c.(component.Describable); ok {
				out = append(out, d.Describe())
			}
		}
		return out
	}
}
