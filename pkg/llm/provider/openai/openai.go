// Package openai implements the Chat Completions payload shape.
package openai

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/papercomputeco/codestream/pkg/llm"
)

// provider implements the Provider interface for OpenAI's Chat Completions API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "chat_completions"
}

func (o *provider) Path() string {
	return "/chat/completions"
}

func (o *provider) MarshalRequest(req *llm.ChatRequest) ([]byte, error) {
	messages := make([]openaiMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openaiMessage{Role: msg.Role, Content: msg.Content})
	}

	return json.Marshal(openaiRequest{
		Model:       req.Model,
		Messages:    messages,
		Stream:      req.Stream,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
}

// ParseStreamChunk reads choices[0].delta.content and the finish reason.
func (o *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	if !gjson.ValidBytes(payload) {
		return nil, llm.ErrInvalidPayload
	}

	choice := gjson.GetBytes(payload, "choices.0")
	if !choice.Exists() {
		return nil, nil
	}

	chunk := &llm.StreamChunk{}
	if content := choice.Get("delta.content"); content.Type == gjson.String {
		chunk.Text = content.Str
	}
	if reason := choice.Get("finish_reason"); reason.Type == gjson.String {
		chunk.StopReason = reason.Str
		chunk.Done = true
	}

	if chunk.Text == "" && !chunk.Done {
		return nil, nil
	}
	return chunk, nil
}
