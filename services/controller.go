package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lmoralesc/pausia/core"
)

// ControllerConfig wires the lifecycle controller's collaborators.
type ControllerConfig struct {
	Auth     core.AuthService
	Profiles core.ProfileStore
	Resolver core.LoginResolver // optional; without it only emails can sign in
	Cache    core.ProfileCache  // optional profile snapshot persistence
	Logger   *slog.Logger

	// SlowThreshold overrides DefaultSlowThreshold. Intended for tests.
	SlowThreshold time.Duration
}

// Controller drives the auth lifecycle: bootstrap, sign-in, sign-out,
// profile refresh, and externally delivered auth-change events. One
// controller exists per application instance; Close releases its timers and
// its event subscription.
//
// All remote calls happen outside the state lock, so operations may overlap.
// Profile-load results are applied in issuance order through a sequence
// guard; a result from a superseded load is discarded without touching
// state.
type Controller struct {
	auth     core.AuthService
	profiles core.ProfileStore
	resolver core.LoginResolver
	store    *SessionStore
	logger   *slog.Logger

	mu          sync.Mutex
	state       core.AuthState
	profileSeq  uint64
	lastSubject string // subject of the most recent profile load issued

	sessionWatch *watchdog
	profileWatch *watchdog

	events      chan core.AuthEvent
	done        chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

func NewController(config ControllerConfig) *Controller {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		auth:     config.Auth,
		profiles: config.Profiles,
		resolver: config.Resolver,
		store:    NewSessionStore(config.Cache, logger),
		logger:   logger,
		events:   make(chan core.AuthEvent, 16),
		done:     make(chan struct{}),
	}

	c.sessionWatch = newWatchdog(config.SlowThreshold, func() {
		c.mu.Lock()
		if c.state.Loading {
			c.state.SlowSession = true
		}
		c.mu.Unlock()
	})
	c.profileWatch = newWatchdog(config.SlowThreshold, func() {
		c.mu.Lock()
		if c.state.ProfileLoading {
			c.state.SlowProfile = true
		}
		c.mu.Unlock()
	})

	c.unsubscribe = c.auth.Subscribe(c.enqueueEvent)
	go c.eventLoop()

	return c
}

// State returns a snapshot of the current auth state. The profile and
// session pointers are shared; treat them as read-only.
func (c *Controller) State() core.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Store exposes the session store for read-only consumers.
func (c *Controller) Store() *SessionStore {
	return c.store
}

// Bootstrap runs the full initialization sequence: fetch the current
// session, seed the profile from the snapshot when the subject changed, then
// load the authoritative profile. Session-retrieval failures are recorded
// but do not abort; whatever session data came back is still applied.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.mu.Lock()
	c.state.Loading = true
	c.state.Err = ""
	c.state.ProfileFetched = false
	c.state.SlowSession = false
	c.mu.Unlock()
	c.sessionWatch.Start()

	defer func() {
		c.sessionWatch.Stop()
		c.mu.Lock()
		c.state.Loading = false
		c.state.SlowSession = false
		c.mu.Unlock()
	}()

	session, err := c.auth.GetSession(ctx)
	if err != nil {
		c.logger.Warn("session retrieval failed", "error", err)
		c.mu.Lock()
		c.state.Err = err.Error()
		c.mu.Unlock()
	}

	c.setSession(session)

	subject := subjectOf(session)
	if subject == "" {
		c.mu.Lock()
		c.profileSeq++ // supersede any in-flight load
		c.state.Profile = nil
		c.lastSubject = ""
		c.mu.Unlock()
		c.store.WriteCachedProfile(nil)
		return
	}

	c.mu.Lock()
	if subject != c.lastSubject {
		// Provisional paint from the snapshot while the authoritative load
		// runs; the id gate inside ReadCachedProfile keeps out stale users.
		if cached := c.store.ReadCachedProfile(subject); cached != nil {
			c.state.Profile = cached
		}
	}
	c.mu.Unlock()

	c.loadProfile(ctx, subject)

	c.mu.Lock()
	c.lastSubject = subject
	c.mu.Unlock()
}

// Retry re-runs the full initialization sequence. Used by the error and
// slow-connection views.
func (c *Controller) Retry(ctx context.Context) {
	c.Bootstrap(ctx)
}

// SignIn resolves the identifier to an email, authenticates, revokes the
// subject's other sessions best-effort, and loads the profile. Resolver
// failures are returned to the caller and never stored in state; they are
// form-level errors scoped to this attempt. Authentication failures are
// both stored and returned.
func (c *Controller) SignIn(ctx context.Context, identifier, password string) error {
	c.mu.Lock()
	c.state.Loading = true
	c.state.Err = ""
	c.state.SlowSession = false
	c.mu.Unlock()
	c.sessionWatch.Start()

	defer func() {
		c.sessionWatch.Stop()
		c.mu.Lock()
		c.state.Loading = false
		c.state.SlowSession = false
		c.mu.Unlock()
	}()

	email := identifier
	if !strings.Contains(identifier, "@") {
		if c.resolver == nil {
			return core.ErrLoginNotFound
		}
		resolved, err := c.resolver.ResolveEmail(ctx, identifier)
		if err != nil {
			return err
		}
		email = resolved
	}

	session, err := c.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.mu.Lock()
		c.state.Err = err.Error()
		c.mu.Unlock()
		return err
	}

	// Single active session policy: drop the subject's other sessions, but
	// never fail the sign-in over it.
	if err := c.auth.SignOut(ctx, core.ScopeOthers); err != nil {
		c.logger.Warn("revoking other sessions failed", "error", err)
	}

	c.setSession(session)

	if subject := subjectOf(session); subject != "" {
		c.loadProfile(ctx, subject)
		c.mu.Lock()
		c.lastSubject = subject
		c.mu.Unlock()
	}
	return nil
}

// SignOut always lands in the signed-out state locally, even when the remote
// sign-out fails; that failure is logged and not surfaced.
func (c *Controller) SignOut(ctx context.Context) {
	if err := c.auth.SignOut(ctx, core.ScopeGlobal); err != nil {
		c.logger.Warn("remote sign-out failed", "error", err)
	}

	c.sessionWatch.Stop()
	c.profileWatch.Stop()

	c.mu.Lock()
	c.profileSeq++ // supersede any in-flight load
	c.state = core.AuthState{}
	c.lastSubject = ""
	c.mu.Unlock()

	c.store.Write(nil)
	c.store.WriteCachedProfile(nil)
}

// RefreshProfile re-loads the profile for the current subject, or returns
// nil when no session is present.
func (c *Controller) RefreshProfile(ctx context.Context) *core.Profile {
	c.mu.Lock()
	subject := subjectOf(c.state.Session)
	c.mu.Unlock()

	if subject == "" {
		return nil
	}
	return c.loadProfile(ctx, subject)
}

// Close tears the controller down: unsubscribes from auth events, stops the
// event loop, and disarms both watchdogs. Safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		close(c.done)
		c.sessionWatch.Stop()
		c.profileWatch.Stop()
	})
}

// enqueueEvent feeds an auth-change notification into the single consumer
// goroutine, preserving arrival order.
func (c *Controller) enqueueEvent(ev core.AuthEvent) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) eventLoop() {
	for {
		select {
		case ev := <-c.events:
			c.handleAuthEvent(context.Background(), ev)
		case <-c.done:
			return
		}
	}
}

// handleAuthEvent applies one auth-change notification. The initial-session
// event is ignored; bootstrap already covered it. A token refresh for the
// already loaded subject is a no-op so the profile is not refetched.
func (c *Controller) handleAuthEvent(ctx context.Context, ev core.AuthEvent) {
	if ev.Name == core.EventInitialSession {
		return
	}

	c.setSession(ev.Session)

	subject := subjectOf(ev.Session)
	if subject == "" {
		c.mu.Lock()
		c.profileSeq++ // supersede any in-flight load
		c.state.Profile = nil
		c.state.ProfileFetched = false
		c.state.Err = ""
		c.state.Loading = false
		c.lastSubject = ""
		c.mu.Unlock()
		c.store.WriteCachedProfile(nil)
		return
	}

	c.mu.Lock()
	unchanged := subject == c.lastSubject && c.state.Profile != nil
	c.mu.Unlock()
	if unchanged {
		return
	}

	c.loadProfile(ctx, subject)

	c.mu.Lock()
	c.lastSubject = subject
	c.mu.Unlock()
}

func (c *Controller) setSession(session *core.Session) {
	c.mu.Lock()
	c.state.Session = session
	c.mu.Unlock()
	c.store.Write(session)
}

func subjectOf(session *core.Session) string {
	if session == nil {
		return ""
	}
	return session.SubjectID
}
