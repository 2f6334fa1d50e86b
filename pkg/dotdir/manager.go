// Package dotdir manages the .codestream/ directory that holds config.toml,
// credentials.toml and the saved chat session.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the codestream directory.
	dirName = ".codestream"

	// homeEnv overrides the home directory lookup when set.
	homeEnv = "CODESTREAM_HOME"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to a .codestream/ directory, creating it
// if needed. Order of precedence is as follows:
//  1. Provided override
//  2. $CODESTREAM_HOME
//  3. Local ./.codestream/ dir, if it already exists
//  4. Home ~/.codestream/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case os.Getenv(homeEnv) != "":
		dir = os.Getenv(homeEnv)

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating codestream directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// File returns the path of name inside the resolved directory.
func (m *Manager) File(overrideDir, name string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// localDirExists checks whether a .codestream/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
