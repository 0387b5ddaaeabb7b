package pausia

import (
	"log/slog"
	"time"

	"github.com/lmoralesc/pausia/core"
	"github.com/lmoralesc/pausia/pkg/crypto"
	"github.com/lmoralesc/pausia/services"
)

// interfaces
type (
	AuthService       = core.AuthService
	ProfileStore      = core.ProfileStore
	LoginResolver     = core.LoginResolver
	ProfileCache      = core.ProfileCache
	SessionCache      = core.SessionCache
	AuthStorage       = core.AuthStorage
	SessionStorage    = core.SessionStorage
	CredentialStorage = core.CredentialStorage

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	Controller       = services.Controller
	ControllerConfig = services.ControllerConfig
	Guard            = services.Guard
	GuardDecision    = services.GuardDecision
	RouteDecision    = services.RouteDecision
	CredentialAuth   = services.CredentialAuth
	SessionStore     = services.SessionStore
)

type (
	Session       = core.Session
	Profile       = core.Profile
	AuthState     = core.AuthState
	AuthEvent     = core.AuthEvent
	StoredSession = core.StoredSession
	Role          = core.Role
	Route         = core.Route
	SignOutScope  = core.SignOutScope
)

const (
	RoleAdmin   = core.RoleAdmin
	RoleManager = core.RoleManager
	RoleAgent   = core.RoleAgent
)

const (
	ScopeGlobal = core.ScopeGlobal
	ScopeLocal  = core.ScopeLocal
	ScopeOthers = core.ScopeOthers
)

// Constructors & helpers (convenience re-exports)
var (
	NewGuard          = services.NewGuard
	NewCredentialAuth = services.NewCredentialAuth
	NewSessionStore   = services.NewSessionStore
	LandingRoute      = services.LandingRoute
	NewArgon2         = crypto.NewArgon2
)

var (
	ErrProfileNotFound    = core.ErrProfileNotFound
	ErrLoginNotFound      = core.ErrLoginNotFound
	ErrLoginAmbiguous     = core.ErrLoginAmbiguous
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrSessionNotFound    = core.ErrSessionNotFound
	ErrSessionExpired     = core.ErrSessionExpired
)

var (
	ErrAuthServiceRequired  = core.ErrAuthServiceRequired
	ErrProfileStoreRequired = core.ErrProfileStoreRequired
)

// Config wires a lifecycle controller. Auth and Profiles are required; the
// rest defaults sensibly.
type Config struct {
	Auth     core.AuthService
	Profiles core.ProfileStore

	// Optional config
	Resolver      core.LoginResolver
	Cache         core.ProfileCache
	Logger        *slog.Logger
	SlowThreshold time.Duration
}

// New validates the config and builds a lifecycle controller. The caller
// owns its lifetime: run Bootstrap once at startup and Close on shutdown.
func New(config Config) (*Controller, error) {
	if config.Auth == nil {
		return nil, ErrAuthServiceRequired
	}
	if config.Profiles == nil {
		return nil, ErrProfileStoreRequired
	}

	return services.NewController(services.ControllerConfig{
		Auth:          config.Auth,
		Profiles:      config.Profiles,
		Resolver:      config.Resolver,
		Cache:         config.Cache,
		Logger:        config.Logger,
		SlowThreshold: config.SlowThreshold,
	}), nil
}
