// Package client is a Go client for the DilSe API. It mirrors the behavior
// of the web frontend: a persisted session, a feed with optimistic reaction
// updates, and a live feed subscription.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dilse/internal/models"
)

// Session is a logged-in identity: the JWT and the user it belongs to.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SessionStore persists the current session as a JSON file so the CLI stays
// logged in between invocations.
type SessionStore struct {
	path string
}

// NewSessionStore creates a store writing to the given file path. An empty
// path defaults to ~/.dilse/session.json, or a relative .dilse directory
// when no home directory can be resolved.
func NewSessionStore(path string) *SessionStore {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".dilse", "session.json")
	}
	return &SessionStore{path: path}
}

// Current returns the stored session, or nil when logged out.
func (s *SessionStore) Current() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt session file is the same as being logged out.
		return nil, nil
	}
	if session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

// Save writes the session to disk, readable only by the owner.
func (s *SessionStore) Save(session Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
