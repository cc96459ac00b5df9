package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a config level name onto a charm log level.
// Unknown names fall back to warn.
func ParseLevel(name string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Setup configures the global logger for a CLI run. Debug mode turns on
// timestamps and overrides the configured level.
func Setup(level string, debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		log.Debug("debug mode enabled")
		return
	}
	log.SetLevel(ParseLevel(level))
	log.SetReportTimestamp(false)
}
