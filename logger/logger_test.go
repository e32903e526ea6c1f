package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "slideshow", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Info("still logs")
	if !strings.Contains(buf.String(), "still logs") {
		t.Errorf("expected info output with fallback level, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug").WithComponent("rotator")
	l.Info("slide shown", Fields(FieldIndex, 2, FieldImage, "img2.jpg"))

	out := decodeLine(t, &buf)
	if out[FieldComponent] != "rotator" {
		t.Errorf("component = %v", out[FieldComponent])
	}
	if out[FieldImage] != "img2.jpg" {
		t.Errorf("image = %v", out[FieldImage])
	}
	if out[FieldIndex] != float64(2) {
		t.Errorf("index = %v", out[FieldIndex])
	}
	if out["service"] != "slideshow" {
		t.Errorf("service = %v", out["service"])
	}
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("handled")

	out := decodeLine(t, &buf)
	if out[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v", out[FieldRequestID])
	}
}

func TestWithContextWithoutRequestID(t *testing.T) {
	l := NewNop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected same logger when context has no request id")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithError(errors.New("boom")).Error("failed")
	out := decodeLine(t, &buf)
	if out["error"] != "boom" {
		t.Errorf("error = %v", out["error"])
	}
}

func TestConsoleFormatTagsService(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "slideshow", &buf)
	l.Info("hello")
	if !strings.Contains(buf.String(), "[SLI][INF]") {
		t.Errorf("expected service and level tags, got %q", buf.String())
	}
}

func TestInitSetsGlobal(t *testing.T) {
	Init(&Config{Level: "info", Format: "json"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger after Init")
	}
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger")
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("Fields = %v", f)
	}
	ef := ErrorFields("list", errors.New("x"))
	if ef[FieldOperation] != "list" || ef[FieldError] != "x" {
		t.Errorf("ErrorFields = %v", ef)
	}
	df := DurationFields("preload", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("DurationFields = %v", df)
	}
	mf := MergeWithError(nil, errors.New("y"))
	if mf[FieldError] != "y" {
		t.Errorf("MergeWithError = %v", mf)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid level error")
	}
	cfg.Level = "info"
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid format error")
	}
}
