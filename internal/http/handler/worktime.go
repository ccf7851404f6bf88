package handler

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/helper"
	"restoran-miniapp/internal/models"
	"restoran-miniapp/internal/worktime"
)

var clockRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateWorktime cek jadwal dari admin: hari dikenal, tidak dobel,
// format HH:MM, dan start != end.
func ValidateWorktime(schedule []worktime.Interval) error {
	seen := map[string]bool{}
	for _, iv := range schedule {
		if !worktime.IsWeekday(iv.Weekday) {
			return fmt.Errorf("неизвестный день недели %q", iv.Weekday)
		}
		if seen[iv.Weekday] {
			return fmt.Errorf("день %s указан дважды", iv.Weekday)
		}
		seen[iv.Weekday] = true

		if !clockRegex.MatchString(iv.TimeStart) || !clockRegex.MatchString(iv.TimeEnd) {
			return fmt.Errorf("время для %s должно быть в формате ЧЧ:ММ", iv.Weekday)
		}
		if iv.TimeStart == iv.TimeEnd {
			return fmt.Errorf("время открытия и закрытия для %s совпадает", iv.Weekday)
		}
	}
	return nil
}

// PreviewStatus - hitung status untuk jadwal yang dikirim langsung (tanpa DB).
// Kalau weekday/time kosong pakai jam venue sekarang.
func PreviewStatus(c *fiber.Ctx) error {
	var req models.StatusPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Weekday == "" || req.Time == "" {
		weekday, clock := worktime.Now(config.VenueLocation())
		if req.Weekday == "" {
			req.Weekday = weekday
		}
		if req.Time == "" {
			req.Time = clock
		}
	}

	status := worktime.Check(req.Worktime, req.Weekday, req.Time)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"weekday": req.Weekday,
			"time":    req.Time,
			"open":    status.Open,
			"status":  status.Message(),
		},
	})
}

func GetRestaurantStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Некорректный id ресторана",
		})
	}

	schedule, err := helper.LoadWorktime(c.UserContext(), int64(id))
	if err != nil {
		zap.L().Error("load worktime", zap.Int("restaurant_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось загрузить расписание",
		})
	}

	status := helper.StatusAt(schedule, time.Now())

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"restaurant_id": id,
			"open":          status.Open,
			"status":        status.Message(),
		},
	})
}

// UpdateWorktime - ganti seluruh jadwal restoran dalam satu transaksi
func UpdateWorktime(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Некорректный id ресторана",
		})
	}

	var req models.UpdateWorktimeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := ValidateWorktime(req.Worktime); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	ctx := c.UserContext()

	if _, err := findRestaurant(ctx, int64(id)); err != nil {
		if errors.Is(err, helper.ErrRestaurantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Ресторан не найден",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось загрузить ресторан",
		})
	}

	tx, err := config.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось сохранить расписание",
		})
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM restaurant_worktime WHERE restaurant_id = ?", id); err != nil {
		zap.L().Error("clear worktime", zap.Int("restaurant_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось сохранить расписание",
		})
	}

	for _, iv := range req.Worktime {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO restaurant_worktime (restaurant_id, weekday, time_start, time_end) VALUES (?, ?, ?, ?)",
			id, iv.Weekday, iv.TimeStart, iv.TimeEnd,
		)
		if err != nil {
			zap.L().Error("insert worktime", zap.Int("restaurant_id", id), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Не удалось сохранить расписание",
			})
		}
	}

	if err := tx.Commit(); err != nil {
		zap.L().Error("commit worktime", zap.Int("restaurant_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось сохранить расписание",
		})
	}

	helper.InvalidateWorktime(ctx, int64(id))
	broadcastStatus(ctx)

	schedule := append([]worktime.Interval(nil), req.Worktime...)
	helper.SortWorktime(schedule)

	zap.L().Info("worktime updated",
		zap.Int("restaurant_id", id),
		zap.Int("days", len(schedule)),
		zap.Any("by", c.Locals("user_id")),
	)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Расписание обновлено",
		"data":    schedule,
	})
}
