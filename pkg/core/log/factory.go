// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     log
// Description: Factory for loggers configured from strings (flags, config)
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package log

import (
	"io"
	"os"
)

// LoggerConfig holds string-typed logger settings as they appear in the
// config file and on the command line
type LoggerConfig struct {
	// Component name
	Name string

	// Log level (trace, debug, info, warn, error, off)
	Level string

	// Output format ("json" or "text")
	Format string

	// Additional outputs besides stderr
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "text",
	}
}

// NewLogger creates a logger from string settings. Unknown level or
// format names are reported; the logger is still usable with defaults.
func NewLogger(cfg LoggerConfig) (*Logger, error) {
	level, levelErr := ParseLevel(cfg.Level)
	format, formatErr := ParseFormat(cfg.Format)

	var output io.Writer = os.Stderr
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	logger := NewWithConfig(Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})

	if levelErr != nil {
		return logger, levelErr
	}
	return logger, formatErr
}
