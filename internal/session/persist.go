package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/staffrate/staffrate/internal/api"
)

const stateFileName = "session.json"

// persistedState is the durable client-side session record. The field names
// are the storage keys the rest of the system expects.
type persistedState struct {
	User         *api.User `json:"user,omitempty"`
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
}

// persister reads and writes the session state file.
type persister struct {
	baseDir string
}

// newPersister prepares the state directory. If baseDir is empty, uses
// ~/.staffrate/
func newPersister(baseDir string) (*persister, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".staffrate")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	return &persister{baseDir: baseDir}, nil
}

func (p *persister) path() string {
	return filepath.Join(p.baseDir, stateFileName)
}

// load reads the persisted session, returning an error when none exists.
func (p *persister) load() (*persistedState, error) {
	data, err := os.ReadFile(p.path())
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session state: %w", err)
	}

	return &state, nil
}

// save writes the session state atomically.
func (p *persister) save(state *persistedState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	// Write to temp file first
	statePath := p.path()
	tempPath := statePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session state: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session state: %w", err)
	}

	return nil
}

// clear removes the persisted session. Missing files are fine.
func (p *persister) clear() error {
	if err := os.Remove(p.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}
