package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lmoralesc/pausia/core"
	"github.com/lmoralesc/pausia/pkg/crypto"
)

// CredentialAuth implements core.AuthService against local storage: argon2id
// password credentials, opaque hashed bearer tokens, session records behind
// a read-through cache, and an event bus for auth-change subscribers.
//
// It tracks the session belonging to this application instance; GetSession
// re-verifies it against storage so revocation elsewhere is observed.
type CredentialAuth struct {
	storage   core.AuthStorage
	cache     core.SessionCache // optional, nil disables caching
	passwords crypto.PasswordHandler
	nanoid    *crypto.NanoIDGenerator
	maxAge    time.Duration
	logger    *slog.Logger

	mu       sync.Mutex
	current  *core.Session
	handlers map[int]func(core.AuthEvent)
	nextID   int
}

var _ core.AuthService = (*CredentialAuth)(nil)

// CredentialAuthConfig configures the credential auth backend.
type CredentialAuthConfig struct {
	Storage   core.AuthStorage
	Cache     core.SessionCache
	Passwords crypto.PasswordHandler
	MaxAge    time.Duration
	Logger    *slog.Logger
}

func NewCredentialAuth(config CredentialAuthConfig) *CredentialAuth {
	passwords := config.Passwords
	if passwords == nil {
		passwords = crypto.NewArgon2()
	}
	maxAge := config.MaxAge
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	nanoid, _ := crypto.NewNanoID("")

	return &CredentialAuth{
		storage:   config.Storage,
		cache:     config.Cache,
		passwords: passwords,
		nanoid:    nanoid,
		maxAge:    maxAge,
		logger:    logger,
	}
}

// GetSession verifies this instance's session against storage and returns
// the client-side copy, or nil when signed out or expired.
func (a *CredentialAuth) GetSession(ctx context.Context) (*core.Session, error) {
	a.mu.Lock()
	current := a.current
	a.mu.Unlock()

	if current == nil {
		return nil, nil
	}

	stored, err := a.verify(ctx, current.Token)
	switch {
	case errors.Is(err, core.ErrSessionExpired), errors.Is(err, core.ErrSessionNotFound):
		a.mu.Lock()
		a.current = nil
		a.mu.Unlock()
		return nil, nil
	case err != nil:
		// Transport failure: report it, but hand back the last known copy
		// so the caller can keep going with what it has.
		return current, err
	}

	session := &core.Session{
		Token:     current.Token,
		SubjectID: stored.SubjectID,
		ExpiresAt: stored.ExpiresAt,
	}
	a.mu.Lock()
	a.current = session
	a.mu.Unlock()

	return session, nil
}

// SignInWithPassword authenticates a credential and opens a new session for
// this instance, emitting a SIGNED_IN event.
func (a *CredentialAuth) SignInWithPassword(ctx context.Context, email, password string) (*core.Session, error) {
	credential, err := a.storage.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up credential: %w", err)
	}
	if credential.PasswordHash == nil {
		return nil, core.ErrInvalidCredentials
	}

	valid, err := a.passwords.Verify(password, *credential.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	pair, err := crypto.GenerateHashedToken(0)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	sessionID, err := a.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	stored := &core.StoredSession{
		ID:        sessionID,
		SubjectID: credential.SubjectID,
		TokenHash: pair.Hash,
		ExpiresAt: now.Add(a.maxAge),
		CreatedAt: now,
	}

	if err := a.storage.CreateSession(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if a.cache != nil {
		// Caching failures never fail the sign-in
		_ = a.cache.Set(pair.Hash, stored)
	}

	session := &core.Session{
		Token:     pair.Token,
		SubjectID: stored.SubjectID,
		ExpiresAt: stored.ExpiresAt,
	}

	a.mu.Lock()
	a.current = session
	a.mu.Unlock()

	a.emit(core.AuthEvent{Name: core.EventSignedIn, Session: session})
	return session, nil
}

// SignOut invalidates sessions according to scope. ScopeOthers keeps this
// instance's session and drops the subject's remaining ones. ScopeGlobal
// drops every session of the subject; ScopeLocal only this instance's. Both
// end this instance's session and emit SIGNED_OUT.
func (a *CredentialAuth) SignOut(ctx context.Context, scope core.SignOutScope) error {
	a.mu.Lock()
	current := a.current
	a.mu.Unlock()

	if current == nil {
		return nil
	}

	tokenHash := crypto.HashToken(current.Token)

	if scope == core.ScopeOthers {
		count, err := a.storage.DeleteSubjectSessions(ctx, current.SubjectID, tokenHash)
		if err != nil {
			return fmt.Errorf("failed to revoke other sessions: %w", err)
		}
		if a.cache != nil && count > 0 {
			_ = a.cache.Clear()
		}
		return nil
	}

	if scope == core.ScopeGlobal {
		// Empty keepTokenHash removes every session of the subject,
		// including this one.
		if _, err := a.storage.DeleteSubjectSessions(ctx, current.SubjectID, ""); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		if a.cache != nil {
			_ = a.cache.Clear()
		}
	} else {
		if a.cache != nil {
			_ = a.cache.Delete(tokenHash)
		}
		if err := a.storage.DeleteSessionByHash(ctx, tokenHash); err != nil && !errors.Is(err, core.ErrSessionNotFound) {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()

	a.emit(core.AuthEvent{Name: core.EventSignedOut, Session: nil})
	return nil
}

// Refresh extends this instance's session and emits TOKEN_REFRESHED. The
// bearer token is unchanged; only the expiry moves.
func (a *CredentialAuth) Refresh(ctx context.Context) (*core.Session, error) {
	a.mu.Lock()
	current := a.current
	a.mu.Unlock()

	if current == nil {
		return nil, core.ErrSessionNotFound
	}

	stored, err := a.verify(ctx, current.Token)
	if err != nil {
		return nil, err
	}

	stored.ExpiresAt = time.Now().Add(a.maxAge)
	if err := a.storage.UpdateSession(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if a.cache != nil {
		_ = a.cache.Set(stored.TokenHash, stored)
	}

	session := &core.Session{
		Token:     current.Token,
		SubjectID: stored.SubjectID,
		ExpiresAt: stored.ExpiresAt,
	}

	a.mu.Lock()
	a.current = session
	a.mu.Unlock()

	a.emit(core.AuthEvent{Name: core.EventTokenRefreshed, Session: session})
	return session, nil
}

// Subscribe registers an auth-event handler and synchronously delivers the
// synthetic INITIAL_SESSION event with the current session.
func (a *CredentialAuth) Subscribe(handler func(core.AuthEvent)) func() {
	a.mu.Lock()
	if a.handlers == nil {
		a.handlers = make(map[int]func(core.AuthEvent))
	}
	id := a.nextID
	a.nextID++
	a.handlers[id] = handler
	current := a.current
	a.mu.Unlock()

	handler(core.AuthEvent{Name: core.EventInitialSession, Session: current})

	return func() {
		a.mu.Lock()
		delete(a.handlers, id)
		a.mu.Unlock()
	}
}

func (a *CredentialAuth) emit(ev core.AuthEvent) {
	a.mu.Lock()
	handlers := make([]func(core.AuthEvent), 0, len(a.handlers))
	for _, h := range a.handlers {
		handlers = append(handlers, h)
	}
	a.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// verify resolves a bearer token to its stored session, consulting the
// cache first and validating expiry.
func (a *CredentialAuth) verify(ctx context.Context, token string) (*core.StoredSession, error) {
	if token == "" {
		return nil, core.ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	if a.cache != nil {
		if stored, err := a.cache.Get(tokenHash); err == nil && stored != nil {
			if time.Now().After(stored.ExpiresAt) {
				_ = a.cache.Delete(tokenHash)
				return nil, core.ErrSessionExpired
			}
			return stored, nil
		}
		// Cache miss - fall through to storage
	}

	stored, err := a.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, core.ErrSessionNotFound
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, core.ErrSessionExpired
	}

	if a.cache != nil {
		_ = a.cache.Set(tokenHash, stored)
	}

	return stored, nil
}
