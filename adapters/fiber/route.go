package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lmoralesc/pausia/services"
)

// Adapter exposes the auth lifecycle over HTTP.
type Adapter struct {
	app   *fiber.App
	ctrl  *services.Controller
	guard *services.Guard
}

func New(app *fiber.App, ctrl *services.Controller) *Adapter {
	return &Adapter{
		app:   app,
		ctrl:  ctrl,
		guard: services.NewGuard(ctrl),
	}
}

// Guard returns the route guard backing this adapter, for wiring protected
// application routes.
func (a *Adapter) Guard() *services.Guard {
	return a.guard
}

func (a *Adapter) RegisterRoutes(basePath string) error {
	api := a.app.Group(basePath)

	// Public routes
	api.Post("/sign-in", handleSignIn(a.ctrl))
	api.Post("/sign-out", handleSignOut(a.ctrl))
	api.Post("/retry", handleRetry(a.ctrl))
	api.Get("/session", handleState(a.ctrl))
	api.Post("/profile/refresh", handleRefreshProfile(a.ctrl))

	// Landing redirect by role
	a.app.Get("/", handleLanding(a.ctrl))

	return nil
}
