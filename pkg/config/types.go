package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/papercomputeco/codestream/pkg/highlight"
	"github.com/papercomputeco/codestream/pkg/llm/client"
	"github.com/papercomputeco/codestream/pkg/logger"
)

// Config represents the persistent codestream configuration stored as
// config.toml in the .codestream/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Render  RenderConfig `toml:"render"`
	Log     LogConfig    `toml:"log"`
}

// ClientConfig holds the upstream API settings used by chat and ask.
type ClientConfig struct {
	BaseURL  string `toml:"base_url,omitempty"`
	Model    string `toml:"model,omitempty"`
	Endpoint string `toml:"endpoint,omitempty"`
	Timeout  string `toml:"timeout,omitempty"`
}

// RenderConfig holds terminal output settings.
type RenderConfig struct {
	Highlight    bool   `toml:"highlight"`
	ColorProfile string `toml:"color_profile,omitempty"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `toml:"level,omitempty"`
}

// TimeoutDuration parses Client.Timeout, returning zero when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Client.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Client.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid value for client.timeout: %w", err)
	}
	return d, nil
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.base_url": {
		get: func(c *Config) string { return c.Client.BaseURL },
		set: func(c *Config, v string) error { c.Client.BaseURL = v; return nil },
	},
	"client.model": {
		get: func(c *Config) string { return c.Client.Model },
		set: func(c *Config, v string) error { c.Client.Model = v; return nil },
	},
	"client.endpoint": {
		get: func(c *Config) string { return c.Client.Endpoint },
		set: func(c *Config, v string) error {
			e, err := client.ParseEndpoint(v)
			if err != nil {
				return fmt.Errorf("invalid value for client.endpoint: %w", err)
			}
			c.Client.Endpoint = string(e)
			return nil
		},
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for client.timeout: %w", err)
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"render.highlight": {
		get: func(c *Config) string { return strconv.FormatBool(c.Render.Highlight) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for render.highlight: %w", err)
			}
			c.Render.Highlight = b
			return nil
		},
	},
	"render.color_profile": {
		get: func(c *Config) string { return c.Render.ColorProfile },
		set: func(c *Config, v string) error {
			if _, err := highlight.ParseProfile(v); err != nil {
				return fmt.Errorf("invalid value for render.color_profile: %w", err)
			}
			c.Render.ColorProfile = v
			return nil
		},
	},
	"log.level": {
		get: func(c *Config) string { return c.Log.Level },
		set: func(c *Config, v string) error {
			if _, err := logger.ParseLevel(v); err != nil {
				return fmt.Errorf("invalid value for log.level: %w", err)
			}
			c.Log.Level = v
			return nil
		},
	},
}
