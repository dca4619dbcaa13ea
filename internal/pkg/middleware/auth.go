package middleware

import (
	icuser "github.com/ManuelReschke/PixelFoxComments/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
)

// RequireAPIAdmin ensures an authenticated admin principal; answers with JSON otherwise.
func RequireAPIAdmin(c *fiber.Ctx) error {
	if icuser.GetPrincipal(c) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "API key required",
		})
	}
	if !icuser.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "administrator role required",
		})
	}
	return c.Next()
}
