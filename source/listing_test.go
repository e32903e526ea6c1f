package source

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/slideshow/gallery"
	servertest "github.com/kbukum/slideshow/server/testutil"
	storagetest "github.com/kbukum/slideshow/storage/testutil"
	roottestutil "github.com/kbukum/slideshow/testutil"
)

// serveGallery runs the real /list and /objects handlers over a memory store.
func serveGallery(t *testing.T, keys ...string) *servertest.Component {
	t.Helper()
	h := roottestutil.T(t)
	store := storagetest.NewComponent()
	h.Setup(store)
	for _, k := range keys {
		store.Put(k, []byte("x"))
	}
	cfg := gallery.Config{}
	cfg.ApplyDefaults()
	lister, err := gallery.NewLister(store, "memory", cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	handler, err := gallery.NewHandler(lister, store, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	srv := servertest.NewComponent(handler.Register)
	h.Setup(srv)
	return srv
}

func TestListing_AgainstGalleryHandler(t *testing.T) {
	srv := serveGallery(t, "images/img10.png", "images/img2.png", "images/deep/x.png", "images/readme.md")

	tests := []struct {
		name       string
		publicBase string
		wantPublic []string
	}{
		{
			name:       "same origin",
			wantPublic: []string{"/objects/images/img2.png", "/objects/images/img10.png"},
		},
		{
			name:       "public origin",
			publicBase: "https://gallery.example.com/",
			wantPublic: []string{"https://gallery.example.com/objects/images/img2.png", "https://gallery.example.com/objects/images/img10.png"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(Config{Type: TypeListing, Listing: ListingConfig{
				BaseURL:       srv.BaseURL(),
				PublicBaseURL: tt.publicBase,
			}})
			if err != nil {
				t.Fatal(err)
			}
			images, err := src.Images(context.Background())
			if err != nil {
				t.Fatalf("Images: %v", err)
			}
			if len(images) != len(tt.wantPublic) {
				t.Fatalf("images = %+v", images)
			}
			for i, img := range images {
				if img.ViewURL() != tt.wantPublic[i] {
					t.Errorf("images[%d].ViewURL() = %q, want %q", i, img.ViewURL(), tt.wantPublic[i])
				}
				if !strings.HasPrefix(img.URL, srv.BaseURL()+"/objects/images/") {
					t.Errorf("images[%d].URL = %q, want it under %s", i, img.URL, srv.BaseURL())
				}
			}
		})
	}
}

// A viewer on another host resolves a same-origin path against the name it
// used, so the URL handed out must not name the server's loopback address.
func TestListing_ViewURLResolvesForRemoteViewer(t *testing.T) {
	srv := serveGallery(t, "images/a.png")

	src, err := New(Config{Type: TypeListing, Listing: ListingConfig{BaseURL: srv.BaseURL()}})
	if err != nil {
		t.Fatal(err)
	}
	images, err := src.Images(context.Background())
	if err != nil || len(images) != 1 {
		t.Fatalf("Images = %+v, %v", images, err)
	}
	view := images[0].ViewURL()
	if strings.Contains(view, "127.0.0.1") || strings.Contains(view, "localhost") {
		t.Fatalf("ViewURL() = %q names loopback", view)
	}

	resp, err := srv.Get(context.Background(), view, "gallery.example.com")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "x" {
		t.Errorf("GET %s via gallery.example.com = %d %q", view, resp.StatusCode, body)
	}
}
