package fence

import (
	"iter"
	"strings"
)

const marker = "```"

// HighlightFunc renders one complete code line for a language tag. It must
// never fail; unknown tags return the code unchanged.
type HighlightFunc func(code, language string) string

// Step computes a single transition from state given the not-yet-consumed
// input. It performs no I/O and does not retain pending.
//
// A step either emits output, consumes input, or changes state. When it does
// none of these, more input is required before anything can be decided.
func Step(state State, pending string, hl HighlightFunc) Transition {
	switch s := state.(type) {
	case Normal:
		return stepNormal(s, pending)
	case FenceOpening:
		return stepFenceOpening(s, pending)
	case InCodeBlock:
		return stepInCodeBlock(s, pending, hl)
	default:
		panic("fence: unknown state")
	}
}

func stepNormal(s Normal, pending string) Transition {
	if pending == "" {
		return Transition{Next: s}
	}

	for start := range lineStarts(pending, s.AtLineStart) {
		rest := pending[start:]

		switch {
		case strings.HasPrefix(rest, marker):
			// Text before the marker goes out now; the marker itself stays
			// pending for FenceOpening to parse.
			return Transition{
				Emit:     pending[:start],
				Consumed: start,
				Next:     FenceOpening{},
			}

		case strings.HasPrefix(marker, rest):
			// A trailing "`" or "``" could still become a marker. Hold it
			// back until more input arrives.
			return Transition{
				Emit:     pending[:start],
				Consumed: start,
				Next:     Normal{AtLineStart: true},
			}
		}
	}

	return Transition{
		Emit:     pending,
		Consumed: len(pending),
		Next:     Normal{AtLineStart: strings.HasSuffix(pending, "\n")},
	}
}

func stepFenceOpening(s FenceOpening, pending string) Transition {
	nl := strings.IndexByte(pending, '\n')
	if nl < 0 {
		return Transition{Next: s}
	}

	return Transition{
		Consumed: nl + 1,
		Next:     InCodeBlock{Language: parseLanguage(pending[:nl])},
	}
}

func stepInCodeBlock(s InCodeBlock, pending string, hl HighlightFunc) Transition {
	if pending == "" {
		return Transition{Next: s}
	}

	nl := strings.IndexByte(pending, '\n')
	if nl < 0 {
		return Transition{
			Consumed: len(pending),
			Next:     InCodeBlock{Language: s.Language, LineBuffer: s.LineBuffer + pending},
		}
	}

	line := s.LineBuffer + pending[:nl]
	if isFenceClose(line) {
		return Transition{
			Consumed: nl + 1,
			Next:     Normal{AtLineStart: true},
		}
	}

	return Transition{
		Emit:     renderLine(line, s.Language, hl) + "\n",
		Consumed: nl + 1,
		Next:     InCodeBlock{Language: s.Language},
	}
}

// lineStarts yields the offsets in pending at which a line begins.
func lineStarts(pending string, atLineStart bool) iter.Seq[int] {
	return func(yield func(int) bool) {
		if atLineStart && !yield(0) {
			return
		}
		for i := 0; i < len(pending); i++ {
			if pending[i] == '\n' && !yield(i+1) {
				return
			}
		}
	}
}

// parseLanguage extracts the language word from a fence-open line such as
// "```python". Anything after the first word is ignored.
func parseLanguage(line string) string {
	rest := strings.TrimLeft(strings.TrimPrefix(line, marker), "`")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isFenceClose reports whether line is exactly three backticks followed by
// optional whitespace.
func isFenceClose(line string) bool {
	return strings.TrimRight(line, " \t\r") == marker
}

func renderLine(line, language string, hl HighlightFunc) string {
	if hl == nil {
		return line
	}
	return hl(line, language)
}
