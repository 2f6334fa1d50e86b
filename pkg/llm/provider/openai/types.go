package openai

// openaiRequest represents OpenAI's streaming request format.
type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	Stream      bool            `json:"stream"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

// openaiMessage represents a text message in OpenAI's format.
type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
