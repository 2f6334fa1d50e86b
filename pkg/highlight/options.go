package highlight

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"
)

// Option configures a Highlighter created with New.
type Option func(*Highlighter)

// WithProfile sets the terminal color profile escapes are generated for.
func WithProfile(p termenv.Profile) Option {
	return func(h *Highlighter) {
		h.profile = p
	}
}

// WithLogger sets the logger used to trace degraded highlighting.
func WithLogger(l *slog.Logger) Option {
	return func(h *Highlighter) {
		if l != nil {
			h.logger = l
		}
	}
}

// ParseProfile maps a config value to a termenv profile.
// Accepted names: "auto", "truecolor", "ansi256", "ansi", "ascii". "auto"
// asks termenv to detect the profile from the environment.
func ParseProfile(name string) (termenv.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "auto":
		return termenv.EnvColorProfile(), nil
	case "", "truecolor":
		return termenv.TrueColor, nil
	case "ansi256":
		return termenv.ANSI256, nil
	case "ansi":
		return termenv.ANSI, nil
	case "ascii", "none":
		return termenv.Ascii, nil
	default:
		return termenv.Ascii, fmt.Errorf("unknown color profile: %q (available: auto, truecolor, ansi256, ansi, ascii)", name)
	}
}
