// Package logging builds the diagnostic logger with charmbracelet/log.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the diagnostic logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the CLI defaults: warnings and above, text, no timestamps.
func DefaultOptions() Options {
	return Options{
		Level:     log.WarnLevel,
		Formatter: log.TextFormatter,
		Prefix:    "taskboard",
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return New(io.Discard, DefaultOptions())
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning", "":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", s)
}

// ParseFormatter parses text, json or logfmt.
func ParseFormatter(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return 0, fmt.Errorf("invalid log format: %s", s)
}

// FromSettings resolves textual level and format settings into Options.
// debug forces the debug level.
func FromSettings(level, format string, debug bool) (Options, error) {
	opts := DefaultOptions()
	lvl, err := ParseLevel(level)
	if err != nil {
		return opts, err
	}
	f, err := ParseFormatter(format)
	if err != nil {
		return opts, err
	}
	opts.Level = lvl
	opts.Formatter = f
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
	}
	return opts, nil
}
