// SPDX-License-Identifier: MPL-2.0

// Package logging builds the process logger: a charmbracelet/log handler
// exposed through log/slog so library packages stay decoupled from it.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "osm"

// Options configures New.
type Options struct {
	// Verbose lowers the level to debug and adds timestamps.
	Verbose bool
	// JSON switches to machine-readable output.
	JSON bool
}

// New returns a slog.Logger writing to w. Without Verbose only warnings and
// errors are printed.
func New(w io.Writer, opts Options) *slog.Logger {
	level := log.WarnLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	formatter := log.TextFormatter
	if opts.JSON {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		ReportTimestamp: opts.Verbose,
		Formatter:       formatter,
	})

	return slog.New(handler)
}

// Install builds a logger with New and makes it the slog default.
func Install(w io.Writer, opts Options) *slog.Logger {
	logger := New(w, opts)
	slog.SetDefault(logger)
	return logger
}
