package sse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/pkg/utils"
)

const (
	initialBufferSize  = 64 * 1024
	defaultMaxLineSize = 1024 * 1024
)

// Reader decodes protocol events from an upstream io.Reader, typically an HTTP
// response body.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │  Reader.Next()   │──▶│ tee io.Writer (opt.)  │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
//
// A Reader is forward-only and not restartable. It is not safe for concurrent
// use.
type Reader struct {
	scanner     *bufio.Scanner
	tee         io.Writer
	logger      *slog.Logger
	maxLineSize int

	// done is set once the termination sentinel has been seen. No further
	// reads are attempted on the source after that.
	done bool
}

// NewReader returns a Reader that decodes events from src.
func NewReader(src io.Reader, opts ...Option) *Reader {
	r := &Reader{
		logger:      logger.Nop(),
		maxLineSize: defaultMaxLineSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.scanner = bufio.NewScanner(src)
	r.scanner.Split(scanRawLines)
	r.scanner.Buffer(make([]byte, min(initialBufferSize, r.maxLineSize)), r.maxLineSize)

	return r
}

// Next returns the next event. It blocks until a complete "data:" line is
// available from the source.
//
// Next returns nil, nil when the sequence has ended: either the source was
// exhausted or a Done event was already returned. A source that closes
// without sending the sentinel is not an error. Read errors from the source are
// returned as-is; the caller owns any retry policy.
func (r *Reader) Next() (*Event, error) {
	if r.done {
		return nil, nil
	}

	for r.scanner.Scan() {
		raw := r.scanner.Text()

		if r.tee != nil {
			if _, err := io.WriteString(r.tee, raw); err != nil {
				return nil, err
			}
		}

		payload, ok := dataPayload(raw)
		if !ok {
			continue
		}

		if payload == DoneSentinel {
			r.done = true
			return &Event{Done: true}, nil
		}

		var data json.RawMessage
		if err := json.Unmarshal([]byte(payload), &data); err != nil {
			r.logger.Warn("skipping malformed stream event",
				"error", err,
				"payload", utils.Truncate(payload, 120),
			)
			continue
		}

		return &Event{Data: data}, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	return nil, nil
}

// Events returns an iterator over the remaining events. Iteration stops after
// the first error, which is yielded with a nil event.
func (r *Reader) Events() iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		for {
			ev, err := r.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if ev == nil {
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// dataPayload applies the line rules in order: blank and comment lines are
// dropped, "event:" and any other non-data fields are dropped, and "data:"
// lines yield their value with a single optional leading space removed.
func dataPayload(raw string) (string, bool) {
	line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")

	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}

	field, value, ok := strings.Cut(line, ":")
	if !ok || field != "data" {
		return "", false
	}

	return strings.TrimPrefix(value, " "), true
}

// scanRawLines is bufio.ScanLines without terminator stripping, so each token
// is the line exactly as it arrived.
func scanRawLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
