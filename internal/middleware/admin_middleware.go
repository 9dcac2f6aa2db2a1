package middleware

import (
	"go-lms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware lets only admins through. It must run after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access denied: Admin role required",
			})
		}

		return c.Next()
	}
}
