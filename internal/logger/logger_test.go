package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("dev", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if _, err := New("prod", "warn"); err != nil {
		t.Fatalf("new: %v", err)
	}
}

func TestRedactsSecrets(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Info("configured", "api_key", "sk-123", "model", "gemini-2.0-flash")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("expected api_key redacted, got %v", fields["api_key"])
	}
	if fields["model"] != "gemini-2.0-flash" {
		t.Errorf("expected model kept, got %v", fields["model"])
	}
}

func TestOddKeyValuesKeptVerbatim(t *testing.T) {
	got := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Errorf("unexpected kvs: %v", got)
	}
}
