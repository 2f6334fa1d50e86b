package provider

import (
	"fmt"

	"github.com/papercomputeco/codestream/pkg/llm/provider/openai"
	"github.com/papercomputeco/codestream/pkg/llm/provider/responses"
)

// Supported shape names
const (
	Responses       = "responses"
	ChatCompletions = "chat_completions"
)

// SupportedProviders returns the shape names in preference order: the
// richer Responses shape first, Chat Completions as the fallback.
func SupportedProviders() []string {
	return []string{Responses, ChatCompletions}
}

// New creates the Provider for the given shape name.
// Returns an error if the name is not recognized.
func New(name string) (Provider, error) {
	switch name {
	case Responses:
		return responses.New(), nil
	case ChatCompletions:
		return openai.New(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", name, SupportedProviders())
	}
}

// Ordered returns one instance of every shape in preference order.
func Ordered() []Provider {
	return []Provider{responses.New(), openai.New()}
}
