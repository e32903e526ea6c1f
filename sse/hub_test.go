package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestClient_SendDropsWhenFull(t *testing.T) {
	c := NewClient("viewer:1", nil)
	for range clientBuffer {
		if !c.Send(Event{Type: "slide"}) {
			t.Fatal("send failed before buffer was full")
		}
	}
	if c.Send(Event{Type: "slide"}) {
		t.Error("expected send to fail when the buffer is full")
	}
}

func TestHub_BroadcastAndRetain(t *testing.T) {
	hub := NewHub(nil, "slide")
	comp := NewComponent(hub, "/events")
	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = comp.Stop(ctx) }()

	first := NewClient("a", nil)
	hub.Register(first)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast("loading", []byte(`{"index":0}`))
	hub.Broadcast("slide", []byte(`{"index":0}`))

	for _, want := range []string{"loading", "slide"} {
		select {
		case ev := <-first.Events():
			if ev.Type != want {
				t.Errorf("event = %s, want %s", ev.Type, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("no %s event", want)
		}
	}

	late := NewClient("b", nil)
	hub.Register(late)
	select {
	case ev := <-late.Events():
		if ev.Type != "slide" || string(ev.Data) != `{"index":0}` {
			t.Errorf("replayed = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("retained slide was not replayed")
	}

	hub.Unregister(first)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-first.Events(); ok {
		t.Error("unregistered client channel should be closed")
	}
}

func TestHub_StopUnblocksCallers(t *testing.T) {
	hub := NewHub(nil)
	comp := NewComponent(hub, "/events")
	ctx := context.Background()
	_ = comp.Start(ctx)
	if err := comp.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	hub.Stop()

	done := make(chan struct{})
	go func() {
		c := NewClient("x", nil)
		hub.Register(c)
		hub.Broadcast("slide", nil)
		hub.Unregister(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after Stop")
	}
}

func TestServeSSE_StreamsEvents(t *testing.T) {
	hub := NewHub(nil, "slide")
	comp := NewComponent(hub, "/events")
	ctx := context.Background()
	_ = comp.Start(ctx)
	defer func() { _ = comp.Stop(ctx) }()

	hub.Broadcast("slide", []byte(`{"name":"img1.jpg"}`))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "viewer:test")
	}))
	defer srv.Close()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, _ := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %s", ct)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 4 {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatalf("stream ended early: %v", got)
			}
			if l != "" {
				got = append(got, l)
			}
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
	want := []string{
		"event: connected",
		`data: {"client_id":"viewer:test"}`,
		"event: slide",
		`data: {"name":"img1.jpg"}`,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !strings.HasPrefix(got[0], "event:") {
		t.Error("first line should name an event")
	}

	cancel()
	for range lines {
	}
}
