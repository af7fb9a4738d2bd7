package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pocketarchive/internal/entity"
)

const currentUserBlob = "library_current_user.json"

// SessionFile holds the single current-user pointer. It is always local,
// even when the record collections live in Postgres: the session never
// travels to the remote store.
type SessionFile struct {
	path string
	mu   sync.Mutex
}

func NewSessionFile(dir string) (*SessionFile, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &SessionFile{path: filepath.Join(dir, currentUserBlob)}, nil
}

// Current returns the persisted user, or nil when no one is logged in.
func (s *SessionFile) Current() (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read session: %v", ErrUnavailable, err)
	}
	var u entity.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", ErrUnavailable, err)
	}
	return &u, nil
}

// Save persists u as the current user; a nil u clears the pointer.
func (s *SessionFile) Save(u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: clear session: %v", ErrUnavailable, err)
		}
		return nil
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%w: encode session: %v", ErrUnavailable, err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write session: %v", ErrUnavailable, err)
	}
	return nil
}
