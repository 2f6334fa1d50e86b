// Package highlight turns a single line of source code into a terminal string
// with ANSI color escapes.
//
// Highlighting never fails outward. Unknown languages, tokenizer errors and
// empty input all degrade to returning the code unchanged, so stripping the
// escapes from any result always gives back the input byte-for-byte.
package highlight

import (
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/codestream/pkg/logger"
)

// Highlighter renders code lines with the fixed theme. The zero value is not
// usable; construct one with New.
type Highlighter struct {
	profile termenv.Profile
	logger  *slog.Logger
}

// New creates a Highlighter. It defaults to 24-bit color.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		profile: termenv.TrueColor,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var std = New()

// Highlight renders code with the package default Highlighter.
func Highlight(code, language string) string {
	return std.Highlight(code, language)
}

// Highlight returns code with each colored token wrapped in a set/reset escape
// pair. Tokens the theme leaves uncolored are written literally.
func (h *Highlighter) Highlight(code, language string) string {
	if code == "" {
		return ""
	}

	lang, ok := Normalize(language)
	if !ok {
		return code
	}

	eng := loadEngine()
	lexer := eng.lexer(lang)
	if lexer == nil {
		h.logger.Debug("no lexer registered", "language", lang)
		return code
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		h.logger.Debug("tokenizing code line", "language", lang, "error", err)
		return code
	}

	tokens := it.Tokens()
	if !strings.HasSuffix(code, "\n") {
		tokens = trimSyntheticNewline(tokens)
	}

	var out, plain strings.Builder
	for _, tok := range tokens {
		if tok.Value == "" {
			continue
		}
		plain.WriteString(tok.Value)

		entry := eng.style.Get(tok.Type)
		if !entry.Colour.IsSet() {
			out.WriteString(tok.Value)
			continue
		}

		out.WriteString(h.profile.String(tok.Value).
			Foreground(h.profile.Color(entry.Colour.String())).
			String())
	}

	// The rendered text must reproduce the input exactly once escapes are
	// removed.
	if plain.String() != code {
		h.logger.Debug("tokenizer altered code line", "language", lang)
		return code
	}

	return out.String()
}

// trimSyntheticNewline drops the newline lexers append to input that did not
// end with one.
func trimSyntheticNewline(tokens []chroma.Token) []chroma.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Value == "" {
			continue
		}
		if strings.HasSuffix(tokens[i].Value, "\n") {
			tokens[i].Value = strings.TrimSuffix(tokens[i].Value, "\n")
		}
		break
	}
	return tokens
}
