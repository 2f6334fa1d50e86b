// Package delta turns one decoded stream event payload into at most one text
// fragment. Both upstream payload shapes are tried, Responses first.
package delta

import (
	"github.com/papercomputeco/codestream/pkg/llm/provider"
)

// Shape identifies which payload variant a delta was read from.
type Shape string

const (
	ShapeResponses       Shape = provider.Responses
	ShapeChatCompletions Shape = provider.ChatCompletions
)

// Delta is one fragment of assistant text.
type Delta struct {
	Text  string
	Shape Shape
}

var shapes = provider.Ordered()

// Extract returns the text carried by payload. The boolean is false when no
// shape yields non-empty text, including for payloads that are not JSON.
func Extract(payload []byte) (Delta, bool) {
	for _, p := range shapes {
		chunk, err := p.ParseStreamChunk(payload)
		if err != nil {
			return Delta{}, false
		}
		if chunk != nil && chunk.Text != "" {
			return Delta{Text: chunk.Text, Shape: Shape(p.Name())}, true
		}
	}
	return Delta{}, false
}

// Finish reports whether payload marks the end of the response in either
// shape, along with the stop reason when the shape carries one.
func Finish(payload []byte) (reason string, done bool) {
	for _, p := range shapes {
		chunk, err := p.ParseStreamChunk(payload)
		if err != nil {
			return "", false
		}
		if chunk != nil && chunk.Done {
			return chunk.StopReason, true
		}
	}
	return "", false
}
