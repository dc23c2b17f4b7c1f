package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	t.Cleanup(func() { SetOutput(prev) })
	return &buf
}

func TestLoggerCreation(t *testing.T) {
	logger := New("memory")

	if logger.component != "memory" {
		t.Errorf("expected component 'memory', got '%s'", logger.component)
	}
}

func TestLoggerWithSession(t *testing.T) {
	logger := New("store").WithSession("s-123")

	if logger.session != "s-123" {
		t.Errorf("expected session 's-123', got '%s'", logger.session)
	}
	if logger.component != "store" {
		t.Errorf("WithSession must keep the component, got '%s'", logger.component)
	}
}

func TestInfoEmitsJSON(t *testing.T) {
	buf := capture(t)

	New("memory").WithSession("s-1").Info("session_started", map[string]interface{}{
		"user": "alice",
	})

	var e Event
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if e.Level != LevelInfo {
		t.Errorf("level = %q, want info", e.Level)
	}
	if e.Component != "memory" || e.Event != "session_started" || e.Session != "s-1" {
		t.Errorf("unexpected event fields: %+v", e)
	}
	if e.Extra["user"] != "alice" {
		t.Errorf("extra not preserved: %+v", e.Extra)
	}
}

func TestWarnIncludesError(t *testing.T) {
	buf := capture(t)

	New("store").Warn("flush_failed", nil, errTest)

	var e Event
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if e.Level != LevelWarn || e.Error != "boom" {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestTimedEvent(t *testing.T) {
	buf := capture(t)

	New("memory").TimedEvent("flush", time.Now().Add(-5*time.Millisecond), nil)

	if !strings.Contains(buf.String(), `"duration_ms"`) {
		t.Errorf("timed event missing duration: %s", buf.String())
	}
}

var errTest = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
