package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/constants"
	helper "schoolku_backend/internals/helpers"
)

// RequireCapability: izinkan request bila role di token punya kemampuan `action`
func RequireCapability(action constants.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := c.Locals("userRole").(string)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - Role not found")
		}
		role, known := constants.ParseRole(raw)
		if !known || !constants.Can(role, action) {
			log.Printf("[Capability] denied role=%q action=%s path=%s", raw, action, c.Path())
			return helper.JsonError(c, fiber.StatusForbidden, constants.ForbiddenMessage(role, action))
		}
		return c.Next()
	}
}
