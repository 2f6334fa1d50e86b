package setup

import (
	"io"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

func isTerminalFd(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// stripWriter removes ANSI escape sequences before writing. The buffer emits
// each highlighted line in one write, so sequences are never split.
type stripWriter struct {
	w io.Writer
}

func (s stripWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(s.w, ansi.Strip(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Output returns w unchanged when it is a terminal or force is set, and a
// writer that strips ANSI escapes otherwise.
func Output(w io.Writer, force bool) io.Writer {
	if force || IsTerminal(w) {
		return w
	}
	return stripWriter{w: w}
}
