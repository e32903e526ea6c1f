package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/slideshow/resilience"
)

func TestClient_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/contents/images" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("ref") != "main" {
			t.Errorf("ref = %s", r.URL.Query().Get("ref"))
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
			t.Errorf("Accept = %s", got)
		}
		if got := r.Header.Get("X-Trace"); got != "1" {
			t.Errorf("X-Trace = %s", got)
		}
		w.Header().Set("X-Ratelimit-Remaining", "59")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL + "/",
		Headers: map[string]string{"Accept": "application/vnd.github.v3+json"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{
		Path:    "/repos/o/r/contents/images",
		Query:   map[string]string{"ref": "main"},
		Headers: map[string]string{"X-Trace": "1"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.IsSuccess() || string(resp.Body) != "[]" {
		t.Errorf("resp = %d %q", resp.StatusCode, resp.Body)
	}
	if resp.Header("x-ratelimit-remaining") != "59" {
		t.Errorf("header lookup failed: %v", resp.Headers)
	}
}

func TestClient_Do_Auth(t *testing.T) {
	tests := []struct {
		name   string
		auth   *AuthConfig
		header string
		want   string
	}{
		{"bearer", BearerAuth("tok"), "Authorization", "Bearer tok"},
		{"basic", BasicAuth("u", "p"), "Authorization", "Basic dTpw"},
		{"header", HeaderAuth("apikey", "k1"), "Apikey", "k1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get(tt.header); got != tt.want {
					t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
				}
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL, Auth: tt.auth})
			if _, err := c.Do(context.Background(), Request{Path: "/"}); err != nil {
				t.Fatalf("Do: %v", err)
			}
		})
	}
}

func TestClient_Do_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %s", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"prefix":"images/"`) {
			t.Errorf("body = %s", body)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/object/list/bucket",
		Body:   map[string]string{"prefix": "images/"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestClient_Do_ClassifiesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	resp, err := c.Do(context.Background(), Request{Path: "/missing.jpg"})
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Error("expected response alongside the error")
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode = %d", StatusCode(err))
	}
}

func TestClient_Do_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})
	resp, err := c.Do(context.Background(), Request{Path: "/"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(resp.Body) != "ok" || calls.Load() != 3 {
		t.Errorf("body=%q calls=%d", resp.Body, calls.Load())
	}
}

func TestClient_Do_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})
	_, err := c.Do(context.Background(), Request{Path: "/"})
	if !IsAuth(err) || calls.Load() != 1 {
		t.Errorf("err=%v calls=%d", err, calls.Load())
	}
}

func TestClient_Do_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cb := DefaultCircuitBreakerConfig("upstream")
	cb.MaxFailures = 2
	c, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: cb})

	for i := 0; i < 3; i++ {
		if _, err := c.Do(context.Background(), Request{Path: "/missing"}); !IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		_, _ = c.Do(context.Background(), Request{Path: "/"})
	}
	_, err := c.Do(context.Background(), Request{Path: "/"})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 5 {
		t.Errorf("calls = %d, want 5", calls.Load())
	}
}

func TestClient_Do_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 64))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, MaxBodyBytes: 16})
	if _, err := c.Do(context.Background(), Request{Path: "/"}); err == nil {
		t.Fatal("expected body limit error")
	}
}

func TestClient_Do_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{Timeout: time.Second})
	_, err := c.Do(context.Background(), Request{Path: url})
	if !IsConnection(err) || !IsRetryable(err) {
		t.Errorf("expected retryable connection error, got %v", err)
	}
}

func TestClient_Do_ClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Path: "/slow.png"})
	if !IsTimeout(err) || !IsRetryable(err) {
		t.Errorf("expected retryable timeout error, got %v", err)
	}
	if IsConnection(err) {
		t.Errorf("timeout classified as connection error: %v", err)
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{401, ErrCodeAuth, false},
		{403, ErrCodeAuth, false},
		{404, ErrCodeNotFound, false},
		{422, ErrCodeValidation, false},
		{429, ErrCodeRateLimit, true},
		{503, ErrCodeServer, true},
	}
	for _, tt := range tests {
		e := ClassifyStatusCode(tt.status, nil)
		if e == nil || e.Code != tt.code || e.Retryable != tt.retryable {
			t.Errorf("ClassifyStatusCode(%d) = %+v", tt.status, e)
		}
	}
	if ClassifyStatusCode(204, nil) != nil {
		t.Error("2xx should classify as nil")
	}
	if ErrCodeServer.String() != "server" || ErrorCode(99).String() != "unknown" {
		t.Error("unexpected code names")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if _, err := New(Config{TLS: &TLSConfig{CertFile: "only-cert.pem"}}); err == nil {
		t.Error("expected TLS validation error")
	}
}
