package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func newCapturedLogger(buf *bytes.Buffer) zerolog.Logger {
	return zerolog.New(buf).Level(zerolog.DebugLevel)
}

func parseEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestNewDispatcherLogger(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))
	if dl == nil {
		t.Fatal("expected non-nil DispatcherLogger")
	}
}

func TestDispatcherLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))

	dl.Debug("test message", "key1", "value1", "key2", 42)

	entry := parseEntry(t, &buf)
	if entry["level"] != "debug" {
		t.Errorf("expected level 'debug', got %v", entry["level"])
	}
	if entry["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", entry["message"])
	}
	if entry["key1"] != "value1" {
		t.Errorf("expected key1='value1', got %v", entry["key1"])
	}
	if entry["key2"] != float64(42) { // JSON numbers are float64
		t.Errorf("expected key2=42, got %v", entry["key2"])
	}
}

func TestDispatcherLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))

	dl.Info("info message", "status", "ok")

	entry := parseEntry(t, &buf)
	if entry["level"] != "info" {
		t.Errorf("expected level 'info', got %v", entry["level"])
	}
	if entry["message"] != "info message" {
		t.Errorf("expected message 'info message', got %v", entry["message"])
	}
	if entry["status"] != "ok" {
		t.Errorf("expected status='ok', got %v", entry["status"])
	}
}

func TestDispatcherLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))

	dl.Error("error occurred", "code", 500, "reason", "internal")

	entry := parseEntry(t, &buf)
	if entry["level"] != "error" {
		t.Errorf("expected level 'error', got %v", entry["level"])
	}
	if entry["message"] != "error occurred" {
		t.Errorf("expected message 'error occurred', got %v", entry["message"])
	}
	if entry["code"] != float64(500) {
		t.Errorf("expected code=500, got %v", entry["code"])
	}
	if entry["reason"] != "internal" {
		t.Errorf("expected reason='internal', got %v", entry["reason"])
	}
}

func TestDispatcherLogger_NoKeyValues(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))

	dl.Debug("simple message")

	entry := parseEntry(t, &buf)
	if entry["message"] != "simple message" {
		t.Errorf("expected message 'simple message', got %v", entry["message"])
	}
}

func TestDispatcherLogger_SkipsMalformedPairs(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))

	// Non-string key and a trailing value without a key are both dropped.
	dl.Info("partial fields", 7, "seven", "command", "measure:primary", "dangling")

	entry := parseEntry(t, &buf)
	if entry["command"] != "measure:primary" {
		t.Errorf("expected command field, got %v", entry["command"])
	}
	if _, ok := entry["dangling"]; ok {
		t.Error("trailing value without a key should be dropped")
	}
}

func TestDispatcherLogger_ImplementsInterface(t *testing.T) {
	var buf bytes.Buffer
	dl := NewDispatcherLogger(newCapturedLogger(&buf))

	// Fails to compile if the dispatcher.Logger method set drifts.
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = dl
}
