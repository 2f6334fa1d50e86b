// Package render drives a streamed response body through event decoding,
// delta extraction and the fence-aware buffer onto a terminal writer.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/papercomputeco/codestream/pkg/fence"
	"github.com/papercomputeco/codestream/pkg/llm/delta"
	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/pkg/sse"
)

// Pipeline renders response streams to out. Each Run uses a fresh buffer, so a
// Pipeline can be reused for consecutive turns but not concurrently.
type Pipeline struct {
	out    io.Writer
	hl     fence.HighlightFunc
	tee    io.Writer
	logger *slog.Logger
}

// New creates a Pipeline writing to out.
func New(out io.Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		out:    out,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run renders one response body and returns the assistant text it carried,
// unmodified by highlighting. The buffer is flushed even when decoding fails
// or ctx is cancelled, so the terminal never loses accepted text.
func (p *Pipeline) Run(ctx context.Context, body io.Reader) (text string, err error) {
	readerOpts := []sse.Option{sse.WithLogger(p.logger)}
	if p.tee != nil {
		readerOpts = append(readerOpts, sse.WithTee(p.tee))
	}
	events := sse.NewReader(body, readerOpts...)
	buf := p.buffer()

	var full strings.Builder
	defer func() {
		if flushErr := buf.Flush(); flushErr != nil {
			err = errors.Join(err, fmt.Errorf("flushing output: %w", flushErr))
		}
		text = full.String()
	}()

	deltas := 0
	for ev, readErr := range events.Events() {
		if readErr != nil {
			return "", fmt.Errorf("reading stream: %w", readErr)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if ev.Done {
			break
		}

		if d, ok := delta.Extract(ev.Data); ok {
			deltas++
			full.WriteString(d.Text)
			if _, err := buf.WriteString(d.Text); err != nil {
				return "", fmt.Errorf("writing output: %w", err)
			}
			if deltas == 1 {
				p.logger.Debug("stream shape", "shape", d.Shape)
			}
		}

		// Responses streams end on response.completed without a [DONE] line.
		if reason, done := delta.Finish(ev.Data); done {
			p.logger.Debug("response completed", "stop_reason", reason)
			break
		}
	}

	p.logger.Debug("stream finished", "deltas", deltas, "bytes", full.Len())
	return "", nil
}

// RenderMarkdown copies Markdown text from r to w, highlighting fenced code
// blocks the same way streamed responses are.
func (p *Pipeline) RenderMarkdown(r io.Reader) error {
	buf := p.buffer()
	_, copyErr := io.Copy(buf, r)
	if err := buf.Flush(); err != nil {
		return errors.Join(copyErr, fmt.Errorf("flushing output: %w", err))
	}
	if copyErr != nil {
		return fmt.Errorf("rendering markdown: %w", copyErr)
	}
	return nil
}

func (p *Pipeline) buffer() *fence.Buffer {
	return fence.New(p.out, fence.WithHighlighter(p.hl), fence.WithLogger(p.logger))
}
