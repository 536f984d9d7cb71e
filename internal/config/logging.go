package config

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger creates a prefixed logger at the configured level.
// Unknown levels fall back to info.
func (l LogConfig) NewLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
