package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --model
// on both "codestream chat" and "codestream ask").
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "client.model").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddBoolFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagModel        = "model"
	FlagBaseURL      = "base-url"
	FlagEndpoint     = "endpoint"
	FlagTimeout      = "timeout"
	FlagHighlight    = "highlight"
	FlagColorProfile = "color-profile"
)

// ClientFlags is the registry shared by the commands that talk to the API.
var ClientFlags = FlagSet{
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "client.model",
		Description: "Model name (e.g., gpt-4o-mini, gpt-4.1)",
	},
	FlagBaseURL: {
		Name:        "base-url",
		Shorthand:   "u",
		ViperKey:    "client.base_url",
		Description: "API base URL",
	},
	FlagEndpoint: {
		Name:        "endpoint",
		Shorthand:   "e",
		ViperKey:    "client.endpoint",
		Description: "API shape: auto, responses or chat_completions",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "client.timeout",
		Description: "Maximum duration of one response (e.g., 90s, 5m)",
	},
}

// RenderFlags is the registry shared by every command that writes Markdown.
var RenderFlags = FlagSet{
	FlagHighlight: {
		Name:        "highlight",
		ViperKey:    "render.highlight",
		Description: "Syntax highlight fenced code blocks",
	},
	FlagColorProfile: {
		Name:        "color-profile",
		ViperKey:    "render.color_profile",
		Description: "Color profile: auto, truecolor, ansi256, ansi or ascii",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultBool returns the default bool value for a viper key from NewDefaultConfig.
func defaultBool(viperKey string) bool {
	v := viper.New()
	setViperDefaults(v)
	return v.GetBool(viperKey)
}
