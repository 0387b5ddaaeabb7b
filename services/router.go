package services

import "github.com/lmoralesc/pausia/core"

// RouteDecision tells the caller where to send the user next.
type RouteDecision struct {
	Wait     bool // still resolving, render a waiting state
	Redirect core.Route
}

// LandingRoute decides the landing area for the current auth state. While
// loading it asks the caller to wait; without a session it redirects to
// login; otherwise it dispatches on the profile role. A missing, partially
// loaded, or unrecognized role lands on the unauthorized page.
func LandingRoute(session *core.Session, profile *core.Profile, loading bool) RouteDecision {
	if loading {
		return RouteDecision{Wait: true}
	}
	if session == nil {
		return RouteDecision{Redirect: core.RouteLogin}
	}
	if profile == nil {
		return RouteDecision{Redirect: core.RouteUnauthorized}
	}
	return RouteDecision{Redirect: core.LandingRoute(profile.Role)}
}
