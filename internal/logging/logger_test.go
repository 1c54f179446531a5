package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "WARN", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: " error ", want: LevelError},
		{in: "", want: LevelInfo},
		{in: "verbose", want: LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLogger_MergesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromCore(core)

	logger.Warn("upstream failed",
		WithField("provider", "searchapi"),
		WithFields(map[string]interface{}{"status": 502, "provider": "curated"}),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["provider"] != "curated" {
		t.Errorf("provider = %v, want later map to win", fields["provider"])
	}
	if fields["status"] != int64(502) {
		t.Errorf("status = %v (%T), want 502", fields["status"], fields["status"])
	}
}

func TestLogger_NoFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewFromCore(core)

	logger.Debug("dropped")
	logger.Info("kept")

	if logs.Len() != 1 {
		t.Fatalf("got %d entries, want 1", logs.Len())
	}
	if len(logs.All()[0].Context) != 0 {
		t.Errorf("expected no context fields")
	}
}
