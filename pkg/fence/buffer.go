// Package fence implements the streaming buffer that sits between an LLM's
// text deltas and the terminal. Text outside fenced code blocks passes through
// as soon as it arrives; code inside a block is held one line at a time and
// each complete line is routed through a highlighter. Fence marker lines are
// consumed and never written.
//
// Stripping the highlighter's escapes and the removed marker lines from the
// output always reproduces the input, however the input was split into
// chunks.
package fence

import (
	"io"
	"log/slog"

	"github.com/papercomputeco/codestream/pkg/logger"
)

// Buffer drives Step over an accumulating pending input and writes emitted
// text to a sink. A Buffer is owned by a single stream: it is not safe for
// concurrent use and is discarded after Flush.
type Buffer struct {
	out     io.Writer
	hl      HighlightFunc
	logger  *slog.Logger
	state   State
	pending string
}

// New creates a Buffer writing to out.
func New(out io.Writer, opts ...Option) *Buffer {
	b := &Buffer{
		out:    out,
		logger: logger.Nop(),
		state:  Initial(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current state.
func (b *Buffer) State() State {
	return b.state
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if _, err := b.WriteString(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString appends chunk to the pending input and steps the state machine
// until no further progress is possible without more input. The returned count
// is len(chunk) on success: every byte is either written or held as pending.
func (b *Buffer) WriteString(chunk string) (int, error) {
	if chunk == "" {
		return 0, nil
	}
	b.pending += chunk

	for {
		t := Step(b.state, b.pending, b.hl)
		if t.Consumed == 0 && t.Emit == "" && t.Next == b.state {
			return len(chunk), nil
		}

		if t.Next != b.state {
			b.logger.Debug("fence transition", "from", b.state.String(), "to", t.Next.String())
		}

		b.pending = b.pending[t.Consumed:]
		b.state = t.Next

		if err := b.emit(t.Emit); err != nil {
			return 0, err
		}
	}
}

// Flush ends the stream. An unterminated code line is highlighted and written
// without a trailing newline unless it is a close marker, which is dropped, and any withheld text, which can only be a
// marker prefix that never completed, is written verbatim. Flush must be
// called once, after the last write.
func (b *Buffer) Flush() error {
	if s, ok := b.state.(InCodeBlock); ok && s.LineBuffer != "" && !isFenceClose(s.LineBuffer) {
		b.logger.Debug("flushing unterminated code line", "language", s.Language)
		if err := b.emit(renderLine(s.LineBuffer, s.Language, b.hl)); err != nil {
			return err
		}
	}

	rest := b.pending
	b.pending = ""
	b.state = Initial()

	return b.emit(rest)
}

func (b *Buffer) emit(s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(b.out, s)
	return err
}
