package services

import (
	"context"

	"github.com/lmoralesc/pausia/core"
)

// GuardOutcome classifies what a protected view should do.
type GuardOutcome int

const (
	GuardAllow GuardOutcome = iota
	GuardShowError
	GuardShowSlow
	GuardShowLoading
	GuardRedirectLogin
	GuardShowMissingProfile
	GuardRedirectUnauthorized
)

// GuardDecision is the result of evaluating the guard rules.
type GuardDecision struct {
	Outcome GuardOutcome
	Message string // populated for GuardShowError
}

// Guard wraps protected views with a role allow-list. Evaluation order is
// fixed and first match wins: error, slow, loading, no session, missing
// profile, role check, allow.
type Guard struct {
	ctrl *Controller
}

func NewGuard(ctrl *Controller) *Guard {
	return &Guard{ctrl: ctrl}
}

// Check evaluates the guard for the controller's current state. An empty
// allow-list admits every role.
func (g *Guard) Check(allowed ...core.Role) GuardDecision {
	return g.decide(g.ctrl.State(), allowed)
}

func (g *Guard) decide(state core.AuthState, allowed []core.Role) GuardDecision {
	switch {
	// The missing-row sentinel is not a connectivity failure; it falls
	// through to the dedicated missing-profile state below.
	case state.Err != "" && state.Err != core.ProfileNotFoundSentinel:
		return GuardDecision{Outcome: GuardShowError, Message: state.Err}

	case state.SlowSession || state.SlowProfile:
		return GuardDecision{Outcome: GuardShowSlow}

	case state.Loading || state.ProfileLoading:
		return GuardDecision{Outcome: GuardShowLoading}

	case state.Session == nil:
		return GuardDecision{Outcome: GuardRedirectLogin}

	case state.ProfileFetched && state.Profile == nil:
		// Self-healing: a transient fetch failure resolves without user
		// action once the background refresh lands.
		go g.ctrl.RefreshProfile(context.Background())
		return GuardDecision{Outcome: GuardShowMissingProfile}

	case len(allowed) > 0 && !roleAllowed(state.Profile, allowed):
		return GuardDecision{Outcome: GuardRedirectUnauthorized}

	default:
		return GuardDecision{Outcome: GuardAllow}
	}
}

func roleAllowed(profile *core.Profile, allowed []core.Role) bool {
	if profile == nil {
		return false
	}
	for _, role := range allowed {
		if profile.Role == role {
			return true
		}
	}
	return false
}
