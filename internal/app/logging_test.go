package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"Warning", LogLevelWarn},
		{"error", LogLevelError},
		{"loud", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
	if got := LogLevel(99).String(); got != "UNKNOWN" {
		t.Errorf("LogLevel(99).String() = %q, want UNKNOWN", got)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf, Prefix: "canvaskeys"})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("binding %s missing", "zoomIn")
	logger.Error("error")

	out := buf.String()
	for _, s := range []string{"[DEBUG]", "[INFO]"} {
		if strings.Contains(out, s) {
			t.Errorf("output contains %s: %q", s, out)
		}
	}
	for _, s := range []string{"[WARN] canvaskeys: binding zoomIn missing", "[ERROR]"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q: %q", s, out)
		}
	}

	buf.Reset()
	logger.SetLevel(LogLevelDebug)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("SetLevel did not lower the threshold")
	}
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Output: &buf})

	logger.WithFields(map[string]any{"run": "ab12", "attempts": 3}).
		WithComponent("ready").
		Info("waiting")

	if want := "{attempts=3, component=ready, run=ab12}"; !strings.Contains(buf.String(), want) {
		t.Errorf("output = %q, want fields %s", buf.String(), want)
	}
}

func TestDerivedLoggersShareLevel(t *testing.T) {
	var buf bytes.Buffer
	root := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})
	child := root.WithComponent("keymap")

	child.Info("hidden")
	root.SetLevel(LogLevelDebug)
	child.Info("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown {component=keymap}") {
		t.Errorf("output = %q", out)
	}

	NullLogger.WithComponent("x").Error("discarded")
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()
	if cfg.Level != LogLevelInfo || cfg.Output == nil || cfg.Prefix != "canvaskeys" {
		t.Errorf("DefaultLoggerConfig() = %+v", cfg)
	}
	if NewLogger(LoggerConfig{}).sink.out == nil {
		t.Error("NewLogger without output has no writer")
	}
}
