// Package logging builds the console logger.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Level maps the -v count and --debug to a log level: 0 warn, 1 info,
// 2 and above debug.
func Level(verbose int, debug bool) zerolog.Level {
	switch {
	case debug || verbose >= 2:
		return zerolog.DebugLevel
	case verbose == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

// New returns a human-readable logger writing to w.
func New(w io.Writer, verbose int, debug bool) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(Level(verbose, debug)).With().Timestamp().Logger()
}
