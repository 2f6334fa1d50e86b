// Package provider defines the upstream payload shapes codestream can talk to.
// Each shape knows its endpoint path, how to encode a request and how to read
// the text out of one streaming event.
package provider

import (
	"github.com/papercomputeco/codestream/pkg/llm"
)

// Provider is one upstream API shape.
type Provider interface {
	// Name returns the canonical shape name (e.g., "responses", "chat_completions")
	Name() string

	// Path returns the endpoint path relative to the API base URL.
	Path() string

	// MarshalRequest encodes a streaming request in the shape's wire format.
	MarshalRequest(req *llm.ChatRequest) ([]byte, error)

	// ParseStreamChunk reads one streaming event payload.
	// Returns llm.ErrInvalidPayload if the payload is not JSON.
	// Returns (nil, nil) if the payload is valid but not in this shape or
	// carries nothing of interest.
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}
