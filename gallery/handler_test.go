package gallery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/slideshow/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, keys ...string) (*gin.Engine, func(error)) {
	t.Helper()
	store := newStore(t, keys...)
	cfg := Config{AllowedPrefixes: []string{"images/"}}
	l, err := NewLister(store, "memory", cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h, err := NewHandler(l, store, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	h.Register(r)
	return r, store.FailNext
}

func doGet(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_List(t *testing.T) {
	r, _ := newTestRouter(t, "images/img10.jpg", "images/img2.jpg", "images/sub/x.jpg", "images/a.txt")

	w := doGet(r, "/list?prefix=images/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	var resp ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || !slices.Equal(resp.Images, []string{"img2.jpg", "img10.jpg"}) {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHandler_ListDefaultPrefixAndEmpty(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doGet(r, "/list")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != `{"success":true,"images":[]}` {
		t.Errorf("body = %s", got)
	}
}

func TestHandler_ListErrors(t *testing.T) {
	r, failNext := newTestRouter(t, "images/a.jpg")

	tests := []struct {
		name   string
		target string
		setup  func()
		status int
		code   apperrors.ErrorCode
	}{
		{"traversal", "/list?prefix=../etc/", nil, http.StatusBadRequest, apperrors.ErrCodeInvalidPrefix},
		{"not allowed", "/list?prefix=private/", nil, http.StatusBadRequest, apperrors.ErrCodeInvalidPrefix},
		{"storage failure", "/list?prefix=images/", func() { failNext(errors.New("io")) }, http.StatusInternalServerError, apperrors.ErrCodeStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			w := doGet(r, tt.target)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			var resp apperrors.FailureResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Success || resp.Message == "" || resp.Code != tt.code {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestHandler_Object(t *testing.T) {
	r, _ := newTestRouter(t, "images/img1.png", "secret/key.png")

	w := doGet(r, "/objects/images/img1.png")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("Cache-Control = %s", cc)
	}
	if w.Body.String() != "x" {
		t.Errorf("body = %q", w.Body)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/objects/images/missing.png", http.StatusNotFound},
		{"/objects/images/readme.txt", http.StatusBadRequest},
		{"/objects/secret/key.png", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := doGet(r, tt.target); w.Code != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.target, w.Code, tt.status)
		}
	}
}
