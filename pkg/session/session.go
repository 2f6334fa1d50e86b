// Package session keeps the message history of one conversation and runs each
// turn through the client and the render pipeline.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/papercomputeco/codestream/pkg/dotdir"
	"github.com/papercomputeco/codestream/pkg/llm"
	"github.com/papercomputeco/codestream/pkg/llm/client"
	"github.com/papercomputeco/codestream/pkg/logger"
	"github.com/papercomputeco/codestream/pkg/render"
)

// Streamer opens a response stream for a conversation.
type Streamer interface {
	Stream(ctx context.Context, messages []llm.Message) (*client.Stream, error)
}

// Session is a single conversation. It is not safe for concurrent use.
type Session struct {
	streamer Streamer
	pipeline *render.Pipeline
	logger   *slog.Logger

	system   string
	messages []llm.Message
	endpoint client.Endpoint
}

// New creates an empty Session.
func New(streamer Streamer, pipeline *render.Pipeline, opts ...Option) *Session {
	s := &Session{
		streamer: streamer,
		pipeline: pipeline,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open appends prompt as a user turn and opens the response stream. On error
// the user turn is removed again so the prompt can be retried.
func (s *Session) Open(ctx context.Context, prompt string) (*client.Stream, error) {
	s.messages = append(s.messages, llm.NewTextMessage(llm.RoleUser, prompt))

	stream, err := s.streamer.Stream(ctx, s.request())
	if err != nil {
		s.dropLast()
		return nil, err
	}

	s.endpoint = stream.Endpoint
	return stream, nil
}

// Render writes the response to the pipeline's output, closes the stream and
// records the assistant turn. A stream that fails part way keeps the text
// that was already shown, so history matches the terminal.
func (s *Session) Render(ctx context.Context, stream *client.Stream) (string, error) {
	defer stream.Body.Close()

	start := time.Now()
	text, err := s.pipeline.Run(ctx, stream.Body)

	s.logger.Debug("turn finished",
		"endpoint", stream.Endpoint,
		"bytes", len(text),
		"elapsed", time.Since(start),
		"error", err,
	)

	if text == "" && err != nil {
		s.dropLast()
		return "", err
	}

	s.messages = append(s.messages, llm.NewTextMessage(llm.RoleAssistant, text))
	if err != nil {
		return text, fmt.Errorf("response interrupted: %w", err)
	}
	return text, nil
}

// Send runs one complete turn.
func (s *Session) Send(ctx context.Context, prompt string) (string, error) {
	stream, err := s.Open(ctx, prompt)
	if err != nil {
		return "", err
	}
	return s.Render(ctx, stream)
}

// Reset forgets the history. The system prompt is kept.
func (s *Session) Reset() {
	s.messages = nil
}

// Messages returns a copy of the history, oldest first.
func (s *Session) Messages() []llm.Message {
	return slices.Clone(s.messages)
}

// Endpoint returns the endpoint that served the most recent turn.
func (s *Session) Endpoint() client.Endpoint {
	return s.endpoint
}

// Restore replaces the history with a saved session.
func (s *Session) Restore(state *dotdir.SessionState) {
	if state == nil {
		return
	}
	s.messages = slices.Clone(state.Messages)
	s.endpoint = client.Endpoint(state.Endpoint)
}

// Snapshot captures the history for persistence.
func (s *Session) Snapshot(model string) *dotdir.SessionState {
	return &dotdir.SessionState{
		Model:     model,
		Endpoint:  string(s.endpoint),
		Messages:  s.Messages(),
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *Session) request() []llm.Message {
	if s.system == "" {
		return s.messages
	}
	return append([]llm.Message{llm.NewTextMessage(llm.RoleSystem, s.system)}, s.messages...)
}

func (s *Session) dropLast() {
	s.messages = s.messages[:len(s.messages)-1]
}
