package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/slideshow/bootstrap"
	apperrors "github.com/kbukum/slideshow/errors"
	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/storage"
)

var listPretty bool

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(io.Discard))
	if err != nil {
		return err
	}
	prefix := cfg.Gallery.Prefix
	if len(args) == 1 {
		prefix = args[0]
	}
	lister, err := setupList(app)
	if err != nil {
		return err
	}
	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		return printListing(ctx, cmd.OutOrStdout(), lister, prefix, listPretty)
	})
}

func setupList(app *bootstrap.App[*AppConfig]) (*gallery.Lister, error) {
	cfg := app.Cfg
	store, err := storage.New(cfg.Storage.Config, cfg.Storage.ProviderConfig(), app.Logger)
	if err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(storage.NewComponentFrom(store, cfg.Storage.Config, app.Logger)); err != nil {
		return nil, err
	}
	return gallery.NewLister(store, cfg.Storage.Provider, cfg.Gallery, nil, app.Logger)
}

// printListing writes the same body GET /list would return for prefix.
func printListing(ctx context.Context, w io.Writer, lister gallery.ImageLister, prefix string, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}

	names, err := listPrefix(ctx, lister, prefix)
	if err != nil {
		if encErr := enc.Encode(apperrors.From(err).ToResponse()); encErr != nil {
			return encErr
		}
		return err
	}
	if names == nil {
		names = []string{}
	}
	return enc.Encode(gallery.ListResponse{Success: true, Images: names})
}

func listPrefix(ctx context.Context, lister gallery.ImageLister, raw string) ([]string, error) {
	prefix, err := gallery.NormalizePrefix(raw)
	if err != nil {
		return nil, apperrors.InvalidPrefix(raw, err.Error())
	}
	return lister.List(ctx, prefix)
}
