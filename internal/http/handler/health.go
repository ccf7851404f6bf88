package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/realtime"
)

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Restoran API jalan",
	})
}

// BasicMetrics - angka operasional sederhana, dilindungi basic auth
func BasicMetrics(c *fiber.Ctx) error {
	data := fiber.Map{
		"ws_clients": realtime.Status.ClientCount(),
	}

	if config.Redis != nil {
		start := time.Now()
		if err := config.Redis.Ping(c.UserContext()).Err(); err != nil {
			data["redis"] = err.Error()
		} else {
			data["redis_ping_ms"] = time.Since(start).Milliseconds()
		}
	}

	if config.DB != nil {
		stats := config.DB.Stats()
		data["db_open_connections"] = stats.OpenConnections
		data["db_in_use"] = stats.InUse
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
