// internal/session/store.go
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/eventify/internal/types"
)

// Store persists the credential token and cached user at
// <dataDir>/credentials.json so a session survives process restarts.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a credential store rooted at the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, "credentials.json")}
}

// Load returns the persisted credentials, or (nil, nil) when none exist.
func (s *Store) Load() (*types.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds types.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("unmarshal credentials: %w", err)
	}
	return &creds, nil
}

// Save writes the credentials atomically. The file is user-only since it
// holds a live bearer token.
func (s *Store) Save(creds *types.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// Atomic write: write to temp file then rename
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp credentials: %w", err)
	}
	return nil
}

// Clear removes the credential file. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Token reads the current bearer token from disk. It is the gateway's
// TokenSource, so every outbound request sees a freshly persisted token.
func (s *Store) Token() string {
	creds, err := s.Load()
	if err != nil || creds == nil {
		return ""
	}
	return creds.Token
}
