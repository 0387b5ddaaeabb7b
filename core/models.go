package core

import "time"

// Role classifies what a profile may see on the dashboard.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "GERENTE"
	RoleAgent   Role = "AGENTE"
)

// Known reports whether the role is one of the recognized access tiers.
// A partially loaded profile carries an empty role and is not Known.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// Session is the client-side copy of an active login session
//
// This copy is read-only and ephemeral; the auth backend owns the
// authoritative record and invalidates it on sign-out or expiry.
type Session struct {
	Token     string    `json:"-"` // opaque bearer credential, never exposed in JSON
	SubjectID string    `json:"subjectId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Profile is the dashboard-facing identity of a session subject
//
// Exactly one profile exists per subject. Only the profile loader mutates
// it; admin edits go through a separate update path.
type Profile struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	Role      Role    `json:"role"`
	TeamID    *string `json:"team_id,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// AuthState is the derived, in-memory view of the auth lifecycle.
// It is never persisted; only the profile snapshot is cached separately.
//
// ProfileFetched turns true only after a profile load attempt completes for
// the current session, and resets when the subject changes or the session
// is cleared.
type AuthState struct {
	Session        *Session `json:"session,omitempty"`
	Profile        *Profile `json:"profile,omitempty"`
	Loading        bool     `json:"loading"`
	ProfileLoading bool     `json:"profileLoading"`
	ProfileFetched bool     `json:"profileFetched"`
	SlowSession    bool     `json:"slowSession"`
	SlowProfile    bool     `json:"slowProfile"`
	Err            string   `json:"error,omitempty"`
}

// StoredSession is the authoritative session record held by the backend.
type StoredSession struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	TokenHash string    `json:"-"` // Never expose in JSON (security!)
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credential is a password credential row for a subject.
type Credential struct {
	SubjectID    string  `json:"subjectId"`
	Email        string  `json:"email"`
	PasswordHash *string `json:"-"` // Never expose in JSON
}
