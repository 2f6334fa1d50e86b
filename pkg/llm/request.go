package llm

// ChatRequest is the provider-agnostic form of a streaming chat request.
// Each payload shape encodes it into its own wire format.
type ChatRequest struct {
	// Model name (e.g., "gpt-4.1", "gpt-4o")
	Model string `json:"model"`

	// Conversation messages, oldest first
	Messages []Message `json:"messages"`

	// Whether to stream the response
	Stream bool `json:"stream"`

	// Generation parameters
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}
