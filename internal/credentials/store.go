package credentials

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const (
	stateFileName = "credentials.json"
	lockFileName  = "credentials.lock"
)

// Profile is the cached identity of the logged-in user.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type credentialState struct {
	AccessToken string   `json:"access_token,omitempty"`
	User        *Profile `json:"user,omitempty"`
}

// Store persists the bearer token and user profile under the data
// directory. Every operation is infallible from the caller's perspective:
// storage failures are logged and degrade to "no token / no user" so that
// authentication fails closed instead of crashing the client.
type Store struct {
	path string
	lock *flock.Flock

	mu     sync.Mutex
	logger *slog.Logger
}

// NewStore builds a credential store rooted at the given directory.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   filepath.Join(dir, stateFileName),
		lock:   flock.New(filepath.Join(dir, lockFileName)),
		logger: logger,
	}
}

// Token returns the stored bearer token, or the empty string when absent.
func (s *Store) Token() string {
	state := s.load()
	return state.AccessToken
}

// SetToken stores a bearer token. Blank tokens clear the stored token
// rather than being persisted; a token is either present and plausible or
// absent.
func (s *Store) SetToken(token string) {
	token = strings.TrimSpace(token)
	s.mutate(func(state *credentialState) {
		state.AccessToken = token
	})
}

// User returns the cached user profile, or nil when absent.
func (s *Store) User() *Profile {
	state := s.load()
	if state.User == nil {
		return nil
	}
	cp := *state.User
	return &cp
}

// SetUser stores the user profile; nil clears it.
func (s *Store) SetUser(profile *Profile) {
	s.mutate(func(state *credentialState) {
		if profile == nil {
			state.User = nil
			return
		}
		cp := *profile
		state.User = &cp
	})
}

// Clear removes both token and profile.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withFileLock(func() {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("clear credentials", "error", err)
		}
	})
}

func (s *Store) load() credentialState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var state credentialState
	s.withFileLock(func() {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if !os.IsNotExist(err) {
				s.logger.Warn("read credentials", "error", err)
			}
			return
		}
		if err := json.Unmarshal(data, &state); err != nil {
			s.logger.Warn("parse credentials", "error", err)
			state = credentialState{}
		}
	})
	state.AccessToken = strings.TrimSpace(state.AccessToken)
	return state
}

func (s *Store) mutate(apply func(*credentialState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withFileLock(func() {
		var state credentialState
		if data, err := os.ReadFile(s.path); err == nil {
			if err := json.Unmarshal(data, &state); err != nil {
				s.logger.Warn("parse credentials", "error", err)
				state = credentialState{}
			}
		}

		apply(&state)

		if state.AccessToken == "" && state.User == nil {
			if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("remove credentials", "error", err)
			}
			return
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			s.logger.Warn("encode credentials", "error", err)
			return
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
			s.logger.Warn("ensure credentials directory", "error", err)
			return
		}
		if err := os.WriteFile(s.path, data, 0o600); err != nil {
			s.logger.Warn("write credentials", "error", err)
		}
	})
}

// withFileLock serializes file access across processes. Lock failures fall
// through to unlocked access; local mutex ordering still holds.
func (s *Store) withFileLock(fn func()) {
	locked, err := s.lock.TryLock()
	if err == nil && locked {
		defer func() {
			if err := s.lock.Unlock(); err != nil {
				s.logger.Warn("unlock credentials", "error", err)
			}
		}()
	}
	fn()
}
