// Package logger wraps charmbracelet/log with the defaults used by the HTTP
// boundary and the debug CLI.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Default creates a new charm log for prefix that respects the global log
// level set on process startup and stamps each line with a timestamp, since
// Scribe's logs are read from a server's stdout rather than a terminal.
func Default(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a charm log with explicit options, for callers that
// need a level or formatter different from the global default (the debug
// CLI, for instance).
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
