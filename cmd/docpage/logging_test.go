package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestResolveLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configured string
		quiet      bool
		verbose    bool
		want       slog.Level
	}{
		{"default", "", false, false, slog.LevelInfo},
		{"configured debug", "debug", false, false, slog.LevelDebug},
		{"configured warn uppercase", "WARN", false, false, slog.LevelWarn},
		{"configured error", "error", false, false, slog.LevelError},
		{"verbose wins", "error", false, true, slog.LevelDebug},
		{"quiet wins over config", "debug", true, false, slog.LevelError},
		{"verbose wins over quiet", "", true, true, slog.LevelDebug},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveLevel(tt.configured, tt.quiet, tt.verbose)
			if got != tt.want {
				t.Errorf("resolveLevel(%q, %v, %v) = %v, want %v", tt.configured, tt.quiet, tt.verbose, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("lang", "ts"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "lang=ts") {
		t.Errorf("warn not logged with attrs: %q", out)
	}
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("logger enabled for info at warn level")
	}
}
