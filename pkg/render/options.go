package render

import (
	"io"
	"log/slog"

	"github.com/papercomputeco/codestream/pkg/fence"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHighlighter sets the code line highlighter. Without one, code lines are
// written unchanged.
func WithHighlighter(hl fence.HighlightFunc) Option {
	return func(p *Pipeline) {
		p.hl = hl
	}
}

// WithTee copies every raw stream line to w.
func WithTee(w io.Writer) Option {
	return func(p *Pipeline) {
		p.tee = w
	}
}

// WithLogger sets the logger shared by the decoder and buffer.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}
