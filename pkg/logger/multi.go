package logger

import (
	"context"
	"log/slog"
)

// multiHandler fans out log records to several handlers, each filtering by
// its own level. "codestream --log-file" pairs the pretty stderr handler with
// a JSON handler at debug level this way.
type multiHandler struct {
	handlers []slog.Handler
}

// Multi returns a logger dispatching every record to the handlers of the
// given loggers. Nil loggers are skipped; with a single logger left it is
// returned as is.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	handlers := make([]slog.Handler, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			handlers = append(handlers, l.Handler())
		}
	}
	switch len(handlers) {
	case 0:
		return Nop()
	case 1:
		return slog.New(handlers[0])
	}
	return slog.New(&multiHandler{handlers: handlers})
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		children[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: children}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		children[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: children}
}
