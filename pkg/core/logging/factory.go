// ============================================================================
// fmwkit - FME workspace toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers from configuration
// Created:     2026-10-08
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	mdwlog "github.com/msto63/fmwkit/foundation/core/log"
	"github.com/msto63/fmwkit/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name, shown in text output
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format
	Format string // "json" or "text" (default: text)

	// Output is "stderr", "stdout" or a file path (default: stderr)
	Output string

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "info",
		Format: "text",
		Output: "stderr",
	}
}

// FromConfig builds a LoggerConfig from the [log] section
func FromConfig(name string, c config.LogConfig) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  c.Level,
		Format: c.Format,
		Output: c.Output,
	}
}

// NewLogger creates a Foundation logger. The returned closer releases a
// log file opened for Output and is a no-op for the standard streams.
func NewLogger(cfg LoggerConfig) (*mdwlog.Logger, io.Closer, error) {
	level, err := mdwlog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, mdwerror.Wrap(err, "invalid log level").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("level", cfg.Level)
	}
	format, err := mdwlog.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, mdwerror.Wrap(err, "invalid log format").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("format", cfg.Format)
	}

	output, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = output
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		w = io.MultiWriter(writers...)
	}

	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:  level,
		Format: format,
		Output: w,
		Name:   cfg.Name,
	})
	return logger, closer, nil
}

// NewSimpleLogger creates a text logger on stderr at info level
func NewSimpleLogger(name string) *mdwlog.Logger {
	logger, _, err := NewLogger(DefaultLoggerConfig(name))
	if err != nil {
		return mdwlog.New().WithName(name)
	}
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, mdwerror.Wrap(err, "create log directory").
				WithCode(mdwerror.CodeStorageError).
				WithDetail("path", output)
		}
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, mdwerror.Wrap(err, "open log file").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("path", output)
	}
	return f, f, nil
}
