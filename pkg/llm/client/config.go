package client

import (
	"fmt"
	"time"

	"github.com/papercomputeco/codestream/pkg/llm/provider"
)

// Endpoint selects which upstream API shape the client talks to.
type Endpoint string

const (
	// EndpointAuto tries Responses first and falls back to Chat Completions.
	EndpointAuto            Endpoint = "auto"
	EndpointResponses       Endpoint = provider.Responses
	EndpointChatCompletions Endpoint = provider.ChatCompletions
)

const (
	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds a whole streamed response.
	DefaultTimeout = 5 * time.Minute
)

// ParseEndpoint validates an endpoint mode name. Empty means auto.
func ParseEndpoint(name string) (Endpoint, error) {
	switch e := Endpoint(name); e {
	case "":
		return EndpointAuto, nil
	case EndpointAuto, EndpointResponses, EndpointChatCompletions:
		return e, nil
	default:
		return "", fmt.Errorf("unknown endpoint %q (supported: auto, %s, %s)",
			name, EndpointResponses, EndpointChatCompletions)
	}
}

// Config holds the connection settings for a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is sent as a bearer token. Required.
	APIKey string

	// Model is the model name sent with every request.
	// Defaults to DefaultModel if empty.
	Model string

	// Endpoint selects the API shape. Defaults to EndpointAuto.
	Endpoint Endpoint

	// Timeout bounds each request including reading the stream.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// endpoints returns the shapes to attempt, in order.
func (e Endpoint) endpoints() []Endpoint {
	if e == EndpointAuto || e == "" {
		return []Endpoint{EndpointResponses, EndpointChatCompletions}
	}
	return []Endpoint{e}
}
