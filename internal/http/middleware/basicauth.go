package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"restoran-miniapp/internal/config"
)

// BasicAuth - dipakai untuk endpoint operasional (/metrics-basic)
func BasicAuth() fiber.Handler {
	return basicauth.New(basicauth.Config{
		Authorizer: func(user, pass string) bool {
			expected := config.GetEnv("BASIC_AUTH_PASS", "")
			return expected != "" && user == config.GetEnv("BASIC_AUTH_USER", "ops") && pass == expected
		},
		Unauthorized: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		},
	})
}
