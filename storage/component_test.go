package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/slideshow/component"
	"github.com/kbukum/slideshow/storage"
	"github.com/kbukum/slideshow/storage/local"
	"github.com/kbukum/slideshow/storage/testutil"
)

type bucketCfg struct{ bucket string }

func (b bucketCfg) GetBucket() string { return b.bucket }

func TestComponent_WrapsBackend(t *testing.T) {
	mem := testutil.NewComponent()
	c := storage.NewComponentFrom(mem, storage.Config{Provider: storage.ProviderS3}, nil)
	ctx := context.Background()

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Storage() != mem {
		t.Error("Storage should return the wrapped backend")
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health = %+v", h)
	}

	mem.FailNext(errors.New("down"))
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy || !strings.Contains(h.Message, "down") {
		t.Errorf("Health after failure = %+v", h)
	}
}

func TestComponent_BuildsOnStart(t *testing.T) {
	dir := t.TempDir()
	c := storage.NewComponent(storage.Config{Provider: storage.ProviderLocal}, &local.Config{BasePath: dir}, nil)
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("Health before Start = %+v", h)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Storage() == nil {
		t.Fatal("Storage nil after Start")
	}
}

func TestComponent_UnknownProvider(t *testing.T) {
	c := storage.NewComponent(storage.Config{Provider: "ftp"}, nil, nil)
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestComponent_Describe(t *testing.T) {
	c := storage.NewComponent(storage.Config{Provider: storage.ProviderS3}, bucketCfg{"gallery"}, nil)
	d := c.Describe()
	if d.Details != "provider=s3 bucket=gallery" {
		t.Errorf("Details = %q", d.Details)
	}
}

func TestFileInfoName(t *testing.T) {
	tests := map[string]string{
		"images/img1.jpg": "img1.jpg",
		"images/thumbs/":  "thumbs",
		"top.png":         "top.png",
	}
	for in, want := range tests {
		if got := (storage.FileInfo{Path: in}).Name(); got != want {
			t.Errorf("Name(%q) = %q, want %q", in, got, want)
		}
	}
}
