// Package logging builds the zap loggers used by every entry point.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theirongolddev/quotaclock/internal/config"
)

// Options selects the level and destination of a logger.
type Options struct {
	Level string
	// File sends output to a file instead of stderr. Required for the TUI,
	// which owns the terminal.
	File string
	// Quiet raises the level to error regardless of Level.
	Quiet bool
	// Console switches from JSON to human-readable output.
	Console bool
}

// FromConfig derives Options from the [logging] section.
func FromConfig(cfg config.LoggingConfig) Options {
	return Options{Level: cfg.Level, File: cfg.File}
}

// New builds a logger for opts.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Console {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Quiet && level < zapcore.ErrorLevel {
		level = zapcore.ErrorLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	out := "stderr"
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
		out = opts.File
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
