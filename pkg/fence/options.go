package fence

import "log/slog"

// Option configures a Buffer created with New.
type Option func(*Buffer)

// WithHighlighter routes every complete code line through hl. Without one,
// code lines are written unchanged.
func WithHighlighter(hl HighlightFunc) Option {
	return func(b *Buffer) {
		b.hl = hl
	}
}

// WithLogger traces state transitions at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}
