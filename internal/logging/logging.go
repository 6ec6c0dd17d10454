// Package logging builds the structured loggers used across kiln.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
)

// Options configures New.
type Options struct {
	// Verbose enables debug level output.
	Verbose bool
	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer
}

// New returns a leveled, colored logger.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := pterm.LogLevelInfo
	if opts.Verbose {
		level = pterm.LogLevelDebug
	}

	logger := pterm.DefaultLogger.
		WithWriter(w).
		WithLevel(level)
	return slog.New(pterm.NewSlogHandler(logger))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
