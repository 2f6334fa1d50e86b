package highlight

import (
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Theme is the chroma style every code line is rendered with.
const Theme = "github-dark"

// engine holds the tokenizer and theme state shared by every Highlighter in
// the process. It is built once and only read afterwards; the lexer cache is
// the one piece that grows, and sync.Map covers that.
type engine struct {
	style  *chroma.Style
	lexers sync.Map // canonical language -> chroma.Lexer
}

// loadEngine returns the process-wide engine, building it on first use.
// Concurrent first callers all wait on the same initialization.
var loadEngine = sync.OnceValue(func() *engine {
	return &engine{
		// styles.Get returns the fallback style for unknown names, never nil.
		style: styles.Get(Theme),
	}
})

// lexer returns the coalesced lexer for a canonical language, or nil when
// chroma has none registered.
func (e *engine) lexer(lang string) chroma.Lexer {
	if cached, ok := e.lexers.Load(lang); ok {
		return cached.(chroma.Lexer)
	}

	l := lexers.Get(lang)
	if l == nil {
		return nil
	}
	l = chroma.Coalesce(l)

	actual, _ := e.lexers.LoadOrStore(lang, l)
	return actual.(chroma.Lexer)
}
