package config

import (
	"github.com/papercomputeco/codestream/pkg/llm/client"
)

const (
	defaultTimeout      = "5m"
	defaultColorProfile = "auto"
	defaultLogLevel     = "info"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			BaseURL:  client.DefaultBaseURL,
			Model:    client.DefaultModel,
			Endpoint: string(client.EndpointAuto),
			Timeout:  defaultTimeout,
		},
		Render: RenderConfig{
			Highlight:    true,
			ColorProfile: defaultColorProfile,
		},
		Log: LogConfig{
			Level: defaultLogLevel,
		},
	}
}
