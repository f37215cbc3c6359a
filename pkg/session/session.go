package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// State is what survives between runs: the bearer token and the selected mode.
type State struct {
	Token  string             `json:"token"`
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email,omitempty"`
	Mode   models.UserMode    `json:"mode"`
}

// Session holds the auth token and selected mode and persists them to a
// file. A Session with an empty path lives only in memory.
type Session struct {
	mu    sync.RWMutex
	path  string
	state State
}

func NewMemory() *Session {
	return &Session{state: State{Mode: models.ModeRider}}
}

// Open loads the session stored at path. A missing file yields an empty,
// unauthenticated session.
func Open(path string) (*Session, error) {
	s := &Session{path: path, state: State{Mode: models.ModeRider}}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	if s.state.Mode == "" {
		s.state.Mode = models.ModeRider
	}

	return s, nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) UserID() primitive.ObjectID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

func (s *Session) Mode() models.UserMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Mode
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// SignIn stores the token and the identity returned by login or register.
func (s *Session) SignIn(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Token = token
	if user != nil {
		s.state.UserID = user.ID
		s.state.Email = user.Email
		if user.Mode != "" {
			s.state.Mode = user.Mode
		}
	}
	return s.saveLocked()
}

func (s *Session) SetMode(mode models.UserMode) error {
	if mode != models.ModeRider && mode != models.ModeDriver {
		return fmt.Errorf("unknown mode %q", mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = mode
	return s.saveLocked()
}

// Clear drops the token and identity. The mode is reset to rider.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{Mode: models.ModeRider}
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
