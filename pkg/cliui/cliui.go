// Package cliui provides reusable terminal UI helpers (styles, prompts and
// step indicators) for codestream CLI commands.
package cliui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	StepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	UserPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	AssistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark, the message and elapsed time. fn may return a
// replacement message for the final line; empty keeps msg.
func Step(w io.Writer, msg string, fn func() (string, error)) error {
	done := make(chan struct{})
	stopped := make(chan struct{})
	var mu sync.Mutex

	go func() {
		defer close(stopped)
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			mu.Lock()
			fmt.Fprintf(w, "\r  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)
			mu.Unlock()

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	final, err := fn()
	elapsed := time.Since(start)

	close(done)
	<-stopped

	if final == "" {
		final = msg
	}

	// \x1b[K clears what is left of a longer spinner line.
	fmt.Fprintf(w, "\r  %s %s %s\x1b[K\n",
		Mark(err),
		final,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
