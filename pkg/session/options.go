package session

import "log/slog"

// Option configures a Session.
type Option func(*Session)

// WithSystemPrompt sends prompt as a system message ahead of every request.
// It is not part of the saved history.
func WithSystemPrompt(prompt string) Option {
	return func(s *Session) {
		s.system = prompt
	}
}

// WithLogger sets the logger used for per-turn debug records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
