package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newLoggerTo(t *testing.T, cfg *Config) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(buf, opts)
	} else {
		handler = slog.NewTextHandler(buf, opts)
	}
	if cfg.Component != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}
	return slog.New(handler), buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != LevelInfo {
		t.Errorf("Level = %v, want LevelInfo", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("Format = %v, want FormatText", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("Output = %q, want stderr", cfg.Output)
	}
}

func TestNewRejectsUnknownOutput(t *testing.T) {
	_, err := New(&Config{Output: "/dev/nowhere"})
	if err == nil {
		t.Fatal("expected an error for an unknown output target")
	}
}

func TestNewNilConfigUsesDefault(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if l == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestJSONFormatEncodesStructuredFields(t *testing.T) {
	logger, buf := newLoggerTo(t, &Config{Level: LevelInfo, Format: FormatJSON, Component: "cdpa"})
	logger.Info("attack finished", "result_rate", 100.0)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if line["component"] != "cdpa" {
		t.Errorf("component = %v, want cdpa", line["component"])
	}
	if line["result_rate"] != 100.0 {
		t.Errorf("result_rate = %v, want 100", line["result_rate"])
	}
}

func TestTextFormatIsHumanReadable(t *testing.T) {
	logger, buf := newLoggerTo(t, &Config{Level: LevelInfo, Format: FormatText, Component: "cdpa"})
	logger.Info("starting attack", "bit_count", 32)

	out := buf.String()
	if !strings.Contains(out, "starting attack") || !strings.Contains(out, "bit_count=32") {
		t.Errorf("unexpected text log line: %q", out)
	}
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	logger, buf := newLoggerTo(t, &Config{Level: LevelInfo, Format: FormatText})
	logger.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected debug line to be filtered, got %q", buf.String())
	}
}

func TestDefaultReturnsSameLoggerInstance(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Error("Default() should return the same logger on every call")
	}
}
