package services

import (
	"log/slog"
	"sync"

	"github.com/lmoralesc/pausia/core"
)

// SessionStore holds the current session in memory and guards access to the
// persisted profile snapshot. The session itself is never persisted; only
// the derived profile snapshot is.
type SessionStore struct {
	mu      sync.RWMutex
	session *core.Session
	cache   core.ProfileCache // optional, nil disables persistence
	logger  *slog.Logger
}

func NewSessionStore(cache core.ProfileCache, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{cache: cache, logger: logger}
}

// Read returns the last known session without blocking.
func (s *SessionStore) Read() *core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Write replaces the in-memory session.
func (s *SessionStore) Write(session *core.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// ReadCachedProfile returns the persisted snapshot only when it belongs to
// subjectID. A mismatched snapshot is treated as absent so a previous
// user's data is never shown. Cache failures are logged and swallowed.
func (s *SessionStore) ReadCachedProfile(subjectID string) *core.Profile {
	if s.cache == nil || subjectID == "" {
		return nil
	}

	profile, err := s.cache.Get(subjectID)
	if err != nil {
		s.logger.Warn("profile snapshot read failed", "error", err)
		return nil
	}
	if profile == nil || profile.ID != subjectID {
		return nil
	}
	return profile
}

// WriteCachedProfile stores the snapshot, or clears it when profile is nil.
// Cache failures are logged and swallowed; they must never reach callers.
func (s *SessionStore) WriteCachedProfile(profile *core.Profile) {
	if s.cache == nil {
		return
	}

	var err error
	if profile == nil {
		err = s.cache.Clear()
	} else {
		err = s.cache.Set(profile)
	}
	if err != nil {
		s.logger.Warn("profile snapshot write failed", "error", err)
	}
}
