package core

import "context"

// Ports define interfaces for external dependencies

// ============================================
// AUTH SERVICE PORT
// ============================================

// SignOutScope controls which sessions a sign-out affects.
type SignOutScope string

const (
	ScopeGlobal SignOutScope = "global" // every session of the subject
	ScopeLocal  SignOutScope = "local"  // only this application instance
	ScopeOthers SignOutScope = "others" // every session except this one
)

// Auth event names delivered through an AuthService subscription.
// The synthetic INITIAL_SESSION event is emitted once on subscribe and is
// ignored by the lifecycle controller; bootstrap already covers it.
const (
	EventInitialSession = "INITIAL_SESSION"
	EventSignedIn       = "SIGNED_IN"
	EventTokenRefreshed = "TOKEN_REFRESHED"
	EventSignedOut      = "SIGNED_OUT"
)

// AuthEvent is an auth-state-change notification.
type AuthEvent struct {
	Name    string
	Session *Session
}

// AuthService is the authentication backend contract.
//
// GetSession may return a session alongside an error; callers apply whatever
// session data came back even when retrieval partially failed.
type AuthService interface {
	GetSession(ctx context.Context) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, scope SignOutScope) error

	// Subscribe registers a handler for auth-change events and returns an
	// unsubscribe function. Events are delivered in arrival order.
	Subscribe(handler func(AuthEvent)) (unsubscribe func())
}

// ============================================
// LOOKUP PORTS
// ============================================

// ProfileStore looks up the single profile row for a subject.
// Zero rows is reported as ErrProfileNotFound, distinct from transport errors.
type ProfileStore interface {
	GetProfileByID(ctx context.Context, subjectID string) (*Profile, error)
}

// LoginResolver maps a free-text login identifier to exactly one email.
// Ambiguous or unknown identifiers are reported as ErrLoginAmbiguous and
// ErrLoginNotFound.
type LoginResolver interface {
	ResolveEmail(ctx context.Context, identifier string) (string, error)
}

// ============================================
// CACHE PORTS
// ============================================

// ProfileCache persists a single profile snapshot between runs so a cached
// profile can paint instantly on the next start. Implementations may fail;
// callers swallow and log cache errors, never propagate them.
type ProfileCache interface {
	Get(subjectID string) (*Profile, error)
	Set(profile *Profile) error
	Clear() error
}

// SessionCache caches verified backend sessions by token hash.
type SessionCache interface {
	Get(tokenHash string) (*StoredSession, error)
	Set(tokenHash string, session *StoredSession) error
	Delete(tokenHash string) error
	Clear() error
}

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// SessionStorage defines session-related database operations for the
// credential auth backend.
type SessionStorage interface {
	CreateSession(ctx context.Context, session *StoredSession) error

	GetSessionByHash(ctx context.Context, tokenHash string) (*StoredSession, error)

	UpdateSession(ctx context.Context, session *StoredSession) error

	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	// DeleteSubjectSessions removes every session of the subject except the
	// one matching keepTokenHash. An empty keepTokenHash removes all of them.
	DeleteSubjectSessions(ctx context.Context, subjectID, keepTokenHash string) (int, error)

	// Cleanup
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// CredentialStorage looks up password credentials for the credential auth
// backend.
type CredentialStorage interface {
	GetCredentialByEmail(ctx context.Context, email string) (*Credential, error)
}

// AuthStorage combines everything the credential auth backend needs.
type AuthStorage interface {
	SessionStorage
	CredentialStorage
}
