// Package logging provides structured logging with slog for the cdpa
// command-line tools.
//
// Adapted from the teacher's internal/logging: same Level/Format/Config
// shape and text-vs-JSON handler selection, trimmed of file rotation
// and redaction since the attack tools only ever log to stdout/stderr
// and never handle sensitive external input.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level is re-exported so callers don't need to import log/slog directly.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the log line encoding.
type Format int

const (
	// FormatText outputs human-readable text logs.
	FormatText Format = iota
	// FormatJSON outputs JSON-structured logs, selected by cmd/cdpa's
	// -log-format json so a supervising process can parse its lines.
	FormatJSON
)

// Config holds the logging configuration.
type Config struct {
	Level     Level
	Format    Format
	Output    string // "stdout" or "stderr"
	Component string
}

// DefaultConfig returns the configuration the CLIs start with absent
// -v/--verbose.
func DefaultConfig() *Config {
	return &Config{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    "stderr",
		Component: "cdpa",
	}
}

// New builds a *slog.Logger from cfg.
func New(cfg *Config) (*slog.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var w *os.File
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		w = os.Stdout
	case "stderr", "":
		w = os.Stderr
	default:
		return nil, fmt.Errorf("logging: unknown output %q", cfg.Output)
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	if cfg.Component != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}

	return slog.New(handler), nil
}

var (
	defaultLogger *slog.Logger
	loggerOnce    sync.Once
)

// Default returns the process-wide default logger, built from
// DefaultConfig on first use.
func Default() *slog.Logger {
	loggerOnce.Do(func() {
		l, err := New(DefaultConfig())
		if err != nil {
			l = slog.Default()
		}
		defaultLogger = l
	})
	return defaultLogger
}
