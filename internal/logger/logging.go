// Package logger builds charmbracelet/log loggers for lango's components.
//
// Every logger writes to stderr. Stdout is reserved for lookup output and for
// the IPC and MCP protocol streams.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger that inherits the current global level.
func New(prefix string) *log.Logger {
	level := log.GetLevel()
	return NewWithConfig(prefix, level, false, level == log.DebugLevel, log.TextFormatter)
}

// NewWithConfig creates a charm logger with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
