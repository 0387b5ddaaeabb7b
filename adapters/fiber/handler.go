package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lmoralesc/pausia/core"
	"github.com/lmoralesc/pausia/services"
)

type signInRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// handleSignIn returns a handler for the sign-in endpoint. The identifier
// may be an email or a free-text name for the resolver.
func handleSignIn(ctrl *services.Controller) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input signInRequest
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if err := ctrl.SignIn(c.Context(), input.Identifier, input.Password); err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(ctrl.State())
	}
}

// handleSignOut returns a handler for the sign-out endpoint. It always
// lands in the signed-out state, so it always reports success.
func handleSignOut(ctrl *services.Controller) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctrl.SignOut(c.Context())

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": "signed out successfully",
		})
	}
}

// handleRetry re-runs the full initialization sequence and reports the
// resulting state.
func handleRetry(ctrl *services.Controller) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctrl.Retry(c.Context())
		return c.Status(http.StatusOK).JSON(ctrl.State())
	}
}

// handleState reports the current auth state snapshot.
func handleState(ctrl *services.Controller) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(ctrl.State())
	}
}

// handleRefreshProfile re-loads the current subject's profile.
func handleRefreshProfile(ctrl *services.Controller) fiber.Handler {
	return func(c fiber.Ctx) error {
		profile := ctrl.RefreshProfile(c.Context())
		if profile == nil {
			state := ctrl.State()
			if state.Err == core.ProfileNotFoundSentinel {
				return c.Status(http.StatusNotFound).JSON(fiber.Map{
					"error": core.ProfileNotFoundSentinel,
				})
			}
			return c.Status(http.StatusOK).JSON(state)
		}
		return c.Status(http.StatusOK).JSON(profile)
	}
}

// handleLanding redirects to the landing area for the current role.
func handleLanding(ctrl *services.Controller) fiber.Handler {
	return func(c fiber.Ctx) error {
		state := ctrl.State()
		decision := services.LandingRoute(state.Session, state.Profile, state.Loading)
		if decision.Wait {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "loading",
			})
		}
		return c.Redirect().To(string(decision.Redirect))
	}
}

// handleAuthError maps lifecycle errors to appropriate HTTP responses
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps lifecycle error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidToken),
		errors.Is(err, core.ErrSessionExpired),
		errors.Is(err, core.ErrSessionNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrLoginNotFound),
		errors.Is(err, core.ErrProfileNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrLoginAmbiguous):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
