package handler

import "github.com/gofiber/fiber/v2"

// Logout - token stateless, client cukup buang token
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Вы вышли из системы",
	})
}
