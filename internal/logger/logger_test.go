package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithServiceTagsEveryEntry(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := withService(zap.New(core), "finance4all-api")

	log.Infow("started", "port", 4000)
	log.Named("reporting").Info("ready")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if got := e.ContextMap()["service"]; got != "finance4all-api" {
			t.Errorf("%q: service = %v", e.Message, got)
		}
	}
	if entries[1].LoggerName != "reporting" {
		t.Errorf("logger name = %q", entries[1].LoggerName)
	}
}

func TestGetInitializesDefault(t *testing.T) {
	if Get() == nil {
		t.Fatal("expected a logger")
	}
	if Named("test") == nil {
		t.Fatal("expected a named logger")
	}
}
