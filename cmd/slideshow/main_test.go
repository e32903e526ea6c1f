package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/slideshow/bootstrap"
	"github.com/kbukum/slideshow/gallery"
	"github.com/kbukum/slideshow/logger"
	"github.com/kbukum/slideshow/slideshow"
	"github.com/kbukum/slideshow/storage"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func writeGallery(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "images")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"img10.png", "img2.png", "IMG1.PNG", "nested/deep.png"} {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), pngPixel, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func testApp(t *testing.T, cfg *AppConfig) *bootstrap.App[*AppConfig] {
	t.Helper()
	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(logger.NewNop()), bootstrap.WithSummaryOutput(io.Discard))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestAppConfigDefaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()

	if cfg.Name != serviceName {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Storage.Provider != storage.ProviderLocal || cfg.Storage.Local.BasePath == "" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Source.Listing.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("listing base URL = %q", cfg.Source.Listing.BaseURL)
	}
	if cfg.Source.Listing.Prefix != gallery.DefaultPrefix {
		t.Errorf("listing prefix = %q", cfg.Source.Listing.Prefix)
	}
	if cfg.Slideshow.Interval != slideshow.DefaultInterval || cfg.Slideshow.RetryCount != slideshow.DefaultRetryCount {
		t.Errorf("Slideshow = %+v", cfg.Slideshow)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAppConfigValidateReportsEverySection(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	cfg.Storage.Provider = "ftp"
	cfg.Slideshow.Interval = time.Millisecond
	cfg.Server.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"ftp", "interval", "port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoopbackAddr(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", "127.0.0.1:8080"},
		{"0.0.0.0", "127.0.0.1:8080"},
		{"::", "127.0.0.1:8080"},
		{"localhost", "localhost:8080"},
		{"::1", "[::1]:8080"},
	}
	for _, tt := range tests {
		if got := loopbackAddr(tt.host, 8080); got != tt.want {
			t.Errorf("loopbackAddr(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	yml := "gallery:\n  prefix: albums/\nslideshow:\n  interval: 9s\n  retry_count: 1\n"
	if err := os.WriteFile(file, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	old := configFile
	configFile = file
	t.Cleanup(func() { configFile = old })
	t.Setenv("GALLERY_PREFIX", "photos/")
	t.Setenv("SLIDESHOW_INTERVAL", "2s")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Gallery.Prefix != "photos/" {
		t.Errorf("gallery.prefix = %q, want env value", cfg.Gallery.Prefix)
	}
	if cfg.Slideshow.Interval != 2*time.Second {
		t.Errorf("slideshow.interval = %s, want 2s", cfg.Slideshow.Interval)
	}
	if cfg.Slideshow.RetryCount != 1 {
		t.Errorf("slideshow.retry_count = %d, want file value", cfg.Slideshow.RetryCount)
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("GET %s: decode: %v", url, err)
	}
	return resp.StatusCode
}

func TestServeEndToEnd(t *testing.T) {
	port := freePort(t)
	cfg := &AppConfig{}
	cfg.Server.Port = port
	cfg.Server.Host = "127.0.0.1"
	cfg.Storage.Local.BasePath = writeGallery(t)
	cfg.Slideshow.Interval = time.Hour

	app := testApp(t, cfg)
	if err := setupServe(app); err != nil {
		t.Fatalf("setupServe: %v", err)
	}
	base := fmt.Sprintf("http://127.0.0.1:%d", port)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := app.RunTask(ctx, func(ctx context.Context) error {
		var list gallery.ListResponse
		if status := getJSON(t, base+"/list?prefix=images/", &list); status != http.StatusOK {
			return fmt.Errorf("/list status %d", status)
		}
		want := []string{"IMG1.PNG", "img2.png", "img10.png"}
		if strings.Join(list.Images, ",") != strings.Join(want, ",") || !list.Success {
			return fmt.Errorf("/list = %+v, want %v", list, want)
		}

		var failure map[string]any
		if status := getJSON(t, base+"/list?prefix=../etc/", &failure); status != http.StatusBadRequest || failure["success"] != false {
			return fmt.Errorf("bad prefix: status %d body %v", status, failure)
		}

		slide, err := waitForSlide(ctx, base, "")
		if err != nil {
			return err
		}
		if slide.Index != 0 || slide.Name != "IMG1.PNG" || slide.Total != 3 {
			return fmt.Errorf("first slide = %+v", slide)
		}
		if !strings.HasPrefix(slide.URL, "/objects/images/IMG1.PNG?t=") {
			return fmt.Errorf("slide URL = %q", slide.URL)
		}

		resp, err := http.Get(base + "/")
		if err != nil {
			return err
		}
		page, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !bytes.Contains(page, []byte("EventSource")) {
			return errors.New("slideshow page not served")
		}

		var health map[string]any
		if status := getJSON(t, base+"/health", &health); status != http.StatusOK {
			return fmt.Errorf("/health status %d: %v", status, health)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// waitForSlide polls /slideshow/current until a slide is committed. A
// non-empty host is sent as the Host header.
func waitForSlide(ctx context.Context, base, host string) (*slideshow.Slide, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/slideshow/current", http.NoBody)
		if err != nil {
			return nil, err
		}
		if host != "" {
			req.Host = host
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		var cur struct {
			Slide *slideshow.Slide `json:"slide"`
		}
		err = json.NewDecoder(resp.Body).Decode(&cur)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if cur.Slide != nil {
			return cur.Slide, nil
		}
		select {
		case <-ctx.Done():
			return nil, errors.New("no slide committed")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestServeGivesViewersReachableURLs(t *testing.T) {
	tests := []struct {
		name       string
		publicBase string
		wantPrefix string
	}{
		{name: "same origin", wantPrefix: "/objects/images/IMG1.PNG?t="},
		{name: "public base", publicBase: "https://gallery.example.com", wantPrefix: "https://gallery.example.com/objects/images/IMG1.PNG?t="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := freePort(t)
			cfg := &AppConfig{}
			cfg.Server.Port = port
			cfg.Server.Host = "0.0.0.0"
			cfg.Storage.Local.BasePath = writeGallery(t)
			cfg.Slideshow.Interval = time.Hour
			cfg.Source.Listing.PublicBaseURL = tt.publicBase

			app := testApp(t, cfg)
			if err := setupServe(app); err != nil {
				t.Fatalf("setupServe: %v", err)
			}
			base := fmt.Sprintf("http://127.0.0.1:%d", port)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := app.RunTask(ctx, func(ctx context.Context) error {
				slide, err := waitForSlide(ctx, base, "gallery.example.com")
				if err != nil {
					return err
				}
				if strings.Contains(slide.URL, "127.0.0.1") || !strings.HasPrefix(slide.URL, tt.wantPrefix) {
					return fmt.Errorf("slide URL = %q, want prefix %q", slide.URL, tt.wantPrefix)
				}

				// The path part must serve the image to the viewer's host.
				objPath := slide.URL[strings.Index(slide.URL, "/objects/"):]
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, base+objPath, http.NoBody)
				req.Host = "gallery.example.com"
				resp, err := http.DefaultClient.Do(req)
				if err != nil {
					return err
				}
				body, _ := io.ReadAll(resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK || !bytes.Equal(body, pngPixel) {
					return fmt.Errorf("GET %s = %d (%d bytes)", objPath, resp.StatusCode, len(body))
				}
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestPrintListing(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Storage.Local.BasePath = writeGallery(t)
	app := testApp(t, cfg)
	lister, err := setupList(app)
	if err != nil {
		t.Fatalf("setupList: %v", err)
	}

	var out bytes.Buffer
	if err := printListing(context.Background(), &out, lister, "images", false); err != nil {
		t.Fatalf("printListing: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `{"success":true,"images":["IMG1.PNG","img2.png","img10.png"]}` {
		t.Errorf("output = %s", got)
	}

	out.Reset()
	if err := printListing(context.Background(), &out, lister, "../secret/", false); err == nil {
		t.Fatal("expected an error for a parent prefix")
	}
	var failure map[string]any
	if err := json.Unmarshal(out.Bytes(), &failure); err != nil {
		t.Fatalf("failure body: %v", err)
	}
	if failure["success"] != false || failure["code"] != "INVALID_PREFIX" {
		t.Errorf("failure = %v", failure)
	}
}

func TestServeSharesListingsThroughRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	port := freePort(t)
	cfg := &AppConfig{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port
	cfg.Storage.Local.BasePath = writeGallery(t)
	cfg.Slideshow.Interval = time.Hour
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mini.Addr()

	app := testApp(t, cfg)
	if err := setupServe(app); err != nil {
		t.Fatalf("setupServe: %v", err)
	}
	if app.Components.Get("redis") == nil {
		t.Fatal("redis component not registered")
	}

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		var list gallery.ListResponse
		getJSON(t, fmt.Sprintf("http://127.0.0.1:%d/list?prefix=images/", port), &list)
		if len(list.Images) != 3 {
			return fmt.Errorf("/list = %+v", list)
		}
		if !mini.Exists("slideshow:listing:images/") {
			return errors.New("listing was not written to redis")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
