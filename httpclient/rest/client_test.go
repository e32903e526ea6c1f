package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/slideshow/httpclient"
)

type envelope struct {
	Success bool     `json:"success"`
	Images  []string `json:"images"`
	Message string   `json:"message"`
}

func TestGet_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %s", r.Header.Get("Accept"))
		}
		if r.URL.Query().Get("prefix") != "images/" {
			t.Errorf("prefix = %s", r.URL.Query().Get("prefix"))
		}
		_ = json.NewEncoder(w).Encode(envelope{Success: true, Images: []string{"a.jpg", "b.png"}})
	}))
	defer srv.Close()

	c, err := New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := Get[envelope](context.Background(), c, "/list", WithQuery(map[string]string{"prefix": "images/"}))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.Data.Success || len(resp.Data.Images) != 2 {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestGet_DecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(envelope{Message: "storage offline"})
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	resp, err := Get[envelope](context.Background(), c, "/list")
	if err == nil || !IsRetryable(err) {
		t.Fatalf("expected retryable server error, got %v", err)
	}
	if resp == nil || resp.Data.Message != "storage offline" {
		t.Errorf("expected decoded error body, got %+v", resp)
	}
}

func TestPost_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["prefix"] != "images/" {
			t.Errorf("body = %v", in)
		}
		_, _ = w.Write([]byte(`[{"name":"a.jpg"}]`))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	resp, err := Post[[]map[string]string](context.Background(), c, "/object/list/b", map[string]string{"prefix": "images/"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0]["name"] != "a.jpg" {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestGet_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	if _, err := Get[envelope](context.Background(), c, "/list"); err == nil {
		t.Fatal("expected decode error")
	}
	if IsNotFound(nil) || IsAuth(nil) || IsRateLimit(nil) {
		t.Error("nil error should not classify")
	}
}
