package handler

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/models"
)

// Login - login staff restoran (admin / manager)
func Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Укажите email и пароль",
		})
	}

	var user models.User
	query := `SELECT id, name, email, password, role, is_banned, restaurant_id
	          FROM users WHERE email = ?`
	err := config.DB.QueryRowContext(c.UserContext(), query, req.Email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.IsBanned,
		&user.RestaurantID,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Неверный email или пароль",
		})
	}

	if err != nil {
		zap.L().Error("login query", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Database error",
		})
	}

	// Check if user is banned
	if user.IsBanned == "y" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"error":   "Аккаунт заблокирован",
		})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Неверный email или пароль",
		})
	}

	resp := models.ToUserResponse(user)

	token, err := config.GenerateToken(user.ID, user.Name, user.Email, user.Role, resp.RestaurantID)
	if err != nil {
		zap.L().Error("generate token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to generate token",
		})
	}

	zap.L().Info("staff login", zap.Int64("user_id", user.ID), zap.String("role", user.Role))

	return c.JSON(models.LoginResponse{
		Token: token,
		User:  resp,
	})
}
