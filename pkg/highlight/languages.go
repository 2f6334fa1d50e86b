package highlight

import "strings"

// aliases maps lowercased fence tags to the canonical language identifier.
var aliases = map[string]string{
	"js":      "javascript",
	"mjs":     "javascript",
	"cjs":     "javascript",
	"node":    "javascript",
	"ts":      "typescript",
	"mts":     "typescript",
	"cts":     "typescript",
	"py":      "python",
	"py3":     "python",
	"python3": "python",
	"sh":      "bash",
	"shell":   "bash",
	"zsh":     "bash",
	"ksh":     "bash",
	"golang":  "go",
	"rs":      "rust",
	"rb":      "ruby",
	"yml":     "yaml",
	"kt":      "kotlin",
	"kts":     "kotlin",
	"cs":      "csharp",
	"c#":      "csharp",
	"c++":     "cpp",
	"cc":      "cpp",
	"cxx":     "cpp",
	"hpp":     "cpp",
	"h":       "c",
	"md":      "markdown",
	"ps1":     "powershell",
	"pwsh":    "powershell",
	"ps":      "powershell",
	"docker":  "dockerfile",
	"make":    "makefile",
	"mk":      "makefile",
	"tf":      "terraform",
	"hcl":     "terraform",
	"proto":   "protobuf",
	"objc":    "objective-c",
	"htm":     "html",
	"svg":     "xml",
	"patch":   "diff",
	"ex":      "elixir",
	"exs":     "elixir",
	"erl":     "erlang",
	"hs":      "haskell",
	"pl":      "perl",
	"jsonc":   "json",
	"gql":     "graphql",
	"vim":     "viml",
}

// supported is the closed set of languages that get highlighted. Everything
// else renders plain.
var supported = map[string]struct{}{
	"bash":        {},
	"c":           {},
	"cpp":         {},
	"csharp":      {},
	"css":         {},
	"dart":        {},
	"diff":        {},
	"dockerfile":  {},
	"elixir":      {},
	"erlang":      {},
	"go":          {},
	"graphql":     {},
	"haskell":     {},
	"html":        {},
	"ini":         {},
	"java":        {},
	"javascript":  {},
	"json":        {},
	"jsx":         {},
	"kotlin":      {},
	"lua":         {},
	"makefile":    {},
	"markdown":    {},
	"nix":         {},
	"objective-c": {},
	"perl":        {},
	"php":         {},
	"powershell":  {},
	"protobuf":    {},
	"python":      {},
	"r":           {},
	"ruby":        {},
	"rust":        {},
	"scala":       {},
	"sql":         {},
	"swift":       {},
	"terraform":   {},
	"toml":        {},
	"tsx":         {},
	"typescript":  {},
	"viml":        {},
	"xml":         {},
	"yaml":        {},
	"zig":         {},
}

// Normalize resolves a fence language tag to a supported language
// identifier. It reports false for empty or unsupported tags, which callers
// treat as a request for plain rendering.
func Normalize(tag string) (string, bool) {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if lang == "" {
		return "", false
	}

	if canonical, ok := aliases[lang]; ok {
		lang = canonical
	}

	_, ok := supported[lang]
	return lang, ok
}

// Languages returns the supported language identifiers.
func Languages() []string {
	langs := make([]string, 0, len(supported))
	for lang := range supported {
		langs = append(langs, lang)
	}
	return langs
}
