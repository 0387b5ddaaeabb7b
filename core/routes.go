package core

// Route is a dashboard navigation target.
type Route string

const (
	RouteLogin        Route = "/login"
	RouteAdmin        Route = "/admin"
	RouteManager      Route = "/manager"
	RouteAgent        Route = "/agent"
	RouteUnauthorized Route = "/unauthorized"
)

// LandingRoute returns the landing area for a role. Unrecognized roles,
// including the empty role of a partially loaded profile, land on the
// unauthorized page.
func LandingRoute(role Role) Route {
	switch role {
	case RoleAdmin:
		return RouteAdmin
	case RoleManager:
		return RouteManager
	case RoleAgent:
		return RouteAgent
	default:
		return RouteUnauthorized
	}
}
