// Package logging builds the process zerolog logger and adapts it to the
// event dispatcher and fx.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config level name onto a zerolog level.
// Unknown names fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "off", "disabled":
		return zerolog.Disabled
	case "error", "err":
		return zerolog.ErrorLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "info", "":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing to w (stderr when nil). format "console"
// selects human-readable output, anything else JSON lines.
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}
