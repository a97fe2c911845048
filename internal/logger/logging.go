// Package logger builds prefixed charmbracelet/log loggers for the indexer,
// the suggester and the commands.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New derives a prefixed logger from the default logger, so it follows the
// destination, level and formatter chosen by the command.
func New(prefix string) *log.Logger {
	return log.Default().WithPrefix(prefix)
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Discard returns a logger that drops everything; handy in tests and
// benchmarks.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
