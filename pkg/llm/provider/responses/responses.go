// Package responses implements the Responses API payload shape. Its streaming
// events have drifted across upstream versions, so delta text is looked up
// under several accepted paths.
package responses

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/codestream/pkg/llm"
)

const completedEvent = "response.completed"

// provider implements the Provider interface for the Responses API.
type provider struct{}

func New() *provider { return &provider{} }

func (r *provider) Name() string {
	return "responses"
}

func (r *provider) Path() string {
	return "/responses"
}

func (r *provider) MarshalRequest(req *llm.ChatRequest) ([]byte, error) {
	input := make([]inputMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		input = append(input, inputMessage{Role: msg.Role, Content: msg.Content})
	}

	return json.Marshal(responsesRequest{
		Model:           req.Model,
		Input:           input,
		Stream:          req.Stream,
		MaxOutputTokens: req.MaxTokens,
		Temperature:     req.Temperature,
	})
}

// ParseStreamChunk returns the first non-empty string found under the
// "delta" or "content" roots. A root may be the string itself, or an object
// whose "text", "content" or "output_text" key holds a string or {text}.
func (r *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	if !gjson.ValidBytes(payload) {
		return nil, llm.ErrInvalidPayload
	}

	event := gjson.ParseBytes(payload)

	for _, root := range textRoots {
		if text := textOf(event.Get(root)); text != "" {
			return &llm.StreamChunk{Text: text}, nil
		}
	}

	if event.Get("type").Str == completedEvent {
		return &llm.StreamChunk{Done: true, StopReason: event.Get("response.status").Str}, nil
	}

	return nil, nil
}

func textOf(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.Str
	case v.IsObject():
		for _, key := range textKeys {
			field := v.Get(key)
			if field.Type == gjson.String && field.Str != "" {
				return field.Str
			}
			if field.IsObject() {
				if text := field.Get("text"); text.Type == gjson.String && text.Str != "" {
					return text.Str
				}
			}
		}
	}
	return ""
}
