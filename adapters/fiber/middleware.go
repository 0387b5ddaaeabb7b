package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/lmoralesc/pausia/core"
	"github.com/lmoralesc/pausia/services"
)

// RequireRoles creates a Fiber middleware enforcing the route guard with a
// role allow-list. Every blocked state maps to a response carrying a
// recovery action: retry, refresh, or sign-out.
func RequireRoles(guard *services.Guard, roles ...core.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		decision := guard.Check(roles...)

		switch decision.Outcome {
		case services.GuardShowError:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":  decision.Message,
				"action": "retry",
			})

		case services.GuardShowSlow:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "slow",
				"action": "retry",
			})

		case services.GuardShowLoading:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "loading",
			})

		case services.GuardRedirectLogin:
			return c.Redirect().To(string(core.RouteLogin))

		case services.GuardShowMissingProfile:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":  "profile missing",
				"action": "refresh",
			})

		case services.GuardRedirectUnauthorized:
			return c.Redirect().To(string(core.RouteUnauthorized))

		default:
			return c.Next()
		}
	}
}
