package sse

import (
	"io"
	"log/slog"
)

// Option configures a Reader created with NewReader.
type Option func(*Reader)

// WithLogger sets the logger used to report skipped, malformed events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTee writes every raw line read from the source to w verbatim, line
// terminators included. Useful for capturing upstream traffic.
func WithTee(w io.Writer) Option {
	return func(r *Reader) {
		r.tee = w
	}
}

// WithMaxLineSize overrides the largest single line the reader accepts.
func WithMaxLineSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineSize = n
		}
	}
}
