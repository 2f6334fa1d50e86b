package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/papercomputeco/codestream/pkg/llm"
)

const sessionFile = "session.json"

// SessionState is the last chat conversation, saved so it can be resumed
// with "codestream chat --resume".
type SessionState struct {
	// Model is the model the conversation was held with.
	Model string `json:"model"`

	// Endpoint is the API shape that served the last response.
	Endpoint string `json:"endpoint,omitempty"`

	// Messages is the conversation history, oldest first.
	Messages []llm.Message `json:"messages"`

	UpdatedAt time.Time `json:"updated_at"`
}

// LoadSession reads session.json. Returns nil, nil if no session was saved.
func (m *Manager) LoadSession(overrideDir string) (*SessionState, error) {
	path, err := m.File(overrideDir, sessionFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	state := &SessionState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	return state, nil
}

// SaveSession writes session.json, replacing any previous session. The file
// is written to a temporary name first so a crash never leaves it truncated.
func (m *Manager) SaveSession(state *SessionState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil session")
	}

	path, err := m.File(overrideDir, sessionFile)
	if err != nil {
		return err
	}

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), sessionFile+".*")
	if err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// ClearSession removes session.json. Returns nil if it does not exist.
func (m *Manager) ClearSession(overrideDir string) error {
	path, err := m.File(overrideDir, sessionFile)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
