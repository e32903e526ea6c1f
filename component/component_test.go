package component

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }

func (m *mockComponent) Start(context.Context) error {
	*m.events = append(*m.events, "start:"+m.name)
	return m.startErr
}

func (m *mockComponent) Stop(context.Context) error {
	*m.events = append(*m.events, "stop:"+m.name)
	return m.stopErr
}

func (m *mockComponent) Health(context.Context) Health { return m.health }

type describedComponent struct{ mockComponent }

func (d *describedComponent) Describe() Description {
	return Description{Name: "Storage", Type: "storage", Details: "provider=local"}
}

func newMock(name string, events *[]string) *mockComponent {
	return &mockComponent{name: name, events: events, health: Health{Name: name, Status: StatusHealthy}}
}

func TestRegisterDuplicate(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	if err := r.Register(newMock("storage", &events)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(newMock("storage", &events)); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if r.Get("storage") == nil || r.Get("missing") != nil {
		t.Error("Get returned unexpected result")
	}
}

func TestStartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	_ = r.Register(newMock("storage", &events))
	_ = r.Register(&describedComponent{*newMock("sse", &events)})
	_ = r.Register(newMock("rotator", &events))

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	want := "start:storage,start:sse,start:rotator,stop:rotator,stop:sse,stop:storage"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s\nwant     %s", got, want)
	}
	if len(r.All()) != 3 {
		t.Errorf("All = %d components", len(r.All()))
	}
}

func TestStartAllErrorSkipsStopForUnstarted(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	_ = r.Register(newMock("storage", &events))
	bad := newMock("server", &events)
	bad.startErr = errors.New("port in use")
	_ = r.Register(bad)
	_ = r.Register(newMock("rotator", &events))

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "server") {
		t.Fatalf("err = %v", err)
	}
	_ = r.StopAll(context.Background())
	want := "start:storage,start:server,stop:storage"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	a := newMock("a", &events)
	a.stopErr = errors.New("a failed")
	b := newMock("b", &events)
	b.stopErr = errors.New("b failed")
	_ = r.Register(a)
	_ = r.Register(b)
	_ = r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "a failed") || !strings.Contains(err.Error(), "b failed") {
		t.Errorf("err = %v", err)
	}
}

func TestHealthAll(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	ok := newMock("storage", &events)
	down := newMock("server", &events)
	down.health = Health{Name: "server", Status: StatusUnhealthy, Message: "not listening"}
	_ = r.Register(ok)
	_ = r.Register(down)

	h := r.HealthAll(context.Background())
	if len(h) != 2 || h[0].Status != StatusHealthy || h[1].Status != StatusUnhealthy {
		t.Errorf("health = %+v", h)
	}
}
