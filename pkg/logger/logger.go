// Package logger provides opinionated logging capabilities for codestream.
// Every logger is a *slog.Logger; the handler behind it is picked from the
// options: charmbracelet/log for human-facing CLI output, slog's JSON handler
// for machine-readable logs, or slog's text handler otherwise.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level   slog.Level
	pretty  bool
	json    bool
	source  bool
	prefix  string
	writer  io.Writer
}

// New builds a *slog.Logger from the given options. Without options it writes
// text records at Info level to os.Stderr.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}

	w := c.writer
	if w == nil {
		w = os.Stderr
	}

	switch {
	case c.pretty:
		return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			ReportCaller:    c.source,
			Prefix:          c.prefix,
		}))
	case c.json:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     c.level,
			AddSource: c.source,
		}))
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
