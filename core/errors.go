package core

import "errors"

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found") // 404 Not Found
)

// ProfileNotFoundSentinel is the serialized error recorded in AuthState when
// the subject has a session but no profile row. It is kept distinct from
// transport errors so the UI can offer "reload profile" instead of "retry
// connection".
const ProfileNotFoundSentinel = "PROFILE_NOT_FOUND"

// Login-identifier resolution errors (form-level: returned to the sign-in
// caller, never recorded in AuthState)
var (
	ErrLoginNotFound  = errors.New("no account matches that name")                             // 404
	ErrLoginAmbiguous = errors.New("more than one account matches, sign in with your email") // 409
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")            // 404
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
	ErrInvalidToken       = errors.New("invalid session token")     // 401
	ErrSessionNotFound    = errors.New("session not found")         // 401
	ErrSessionExpired     = errors.New("session expired")           // 401
	ErrCacheNotFound      = errors.New("session not found in cache")
)

// Config errors (server-side configuration)
var (
	ErrAuthServiceRequired  = errors.New("auth service is required")  // 500
	ErrProfileStoreRequired = errors.New("profile store is required") // 500
)
