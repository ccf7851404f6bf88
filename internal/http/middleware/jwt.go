package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/helper"
)

func JWTAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Missing authorization header",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid authorization format",
			})
		}

		claims, err := config.ValidateToken(tokenParts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("name", claims.Name)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		if claims.RestaurantID != nil {
			c.Locals("restaurant_id", *claims.RestaurantID)
		}

		return c.Next()
	}
}

func RoleAuth(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)

		if helper.HasRole(role, allowedRoles...) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Нет доступа к этому ресурсу",
		})
	}
}

// StaffCheck - cek ulang ke DB: user masih ada, tidak dibanned, role masih sesuai.
// Dipakai untuk route yang mengubah data restoran.
func StaffCheck(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(int64)

		err := helper.CheckUserRoleByID(userID, allowedRoles...)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, helper.ErrUserNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Пользователь не найден",
			})
		case errors.Is(err, helper.ErrUserBanned):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Аккаунт заблокирован",
			})
		case errors.Is(err, helper.ErrInvalidRole):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Нет доступа к этому ресурсу",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Не удалось проверить пользователя",
			})
		}
	}
}
