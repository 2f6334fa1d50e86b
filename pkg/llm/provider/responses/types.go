package responses

// responsesRequest represents the Responses API streaming request format.
type responsesRequest struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Stream          bool           `json:"stream"`
	MaxOutputTokens *int           `json:"max_output_tokens,omitempty"`
	Temperature     *float64       `json:"temperature,omitempty"`
}

// inputMessage is one conversation turn in the request's input list.
type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// textRoots are the top-level keys that may carry delta text, in order.
var textRoots = []string{"delta", "content"}

// textKeys are the keys tried under an object-valued root, in order. Each may
// hold a string or an object with a "text" string.
var textKeys = []string{"text", "content", "output_text"}
