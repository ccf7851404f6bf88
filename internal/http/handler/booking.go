package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"restoran-miniapp/internal/booking"
	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/helper"
	"restoran-miniapp/internal/models"
	"restoran-miniapp/internal/notify"
)

// Notifier diisi dari main, default tidak kirim apa-apa
var Notifier notify.Notifier = notify.Nop{}

const bookingColumns = "id, restaurant_id, telegram_user_id, name, phone, guests, booking_date, booking_time, comment, status, created_at, updated_at"

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID,
		&b.RestaurantID,
		&b.TelegramUserID,
		&b.Name,
		&b.Phone,
		&b.Guests,
		&b.Date,
		&b.Time,
		&b.Comment,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

type bookingRows interface {
	rowScanner
	Next() bool
	Err() error
}

// collectBookings - baris yang gagal di-scan dilewati tapi tetap dicatat
func collectBookings(rows bookingRows) []models.Booking {
	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			zap.L().Warn("scan booking row", zap.Error(err))
			continue
		}
		bookings = append(bookings, normalizeBookingRow(b))
	}
	if err := rows.Err(); err != nil {
		zap.L().Warn("iterate booking rows", zap.Error(err))
	}
	return bookings
}

// normalizeBookingRow - DATE/TIME dari MySQL jadi "YYYY-MM-DD" / "HH:MM"
func normalizeBookingRow(b models.Booking) models.Booking {
	if len(b.Date) > len(booking.DateLayout) {
		b.Date = b.Date[:len(booking.DateLayout)]
	}
	b.Time = strings.TrimSpace(b.Time)
	if len(b.Time) > 5 {
		b.Time = b.Time[:5]
	}
	return b
}

// CreateBooking - tamu mini app bikin booking, user diambil dari initData
func CreateBooking(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil || restaurantID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Некорректный id ресторана",
		})
	}

	tgUserID, _ := c.Locals("tg_user_id").(int64)

	var form booking.Form
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	ctx := c.UserContext()
	restaurant, err := findRestaurant(ctx, int64(restaurantID))
	if errors.Is(err, helper.ErrRestaurantNotFound) || (err == nil && restaurant.IsActive != "y") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Ресторан не найден",
		})
	}
	if err != nil {
		zap.L().Error("booking: load restaurant", zap.Int("restaurant_id", restaurantID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось создать бронь",
		})
	}

	now := time.Now().In(config.VenueLocation())
	if errs := booking.Validate(form, restaurant.Worktime, now); errs != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"error":   "Проверьте данные формы",
			"errors":  errs,
		})
	}

	phone, _ := booking.NormalizePhone(form.Phone)
	b := models.Booking{
		ID:             uuid.NewString(),
		RestaurantID:   int64(restaurantID),
		TelegramUserID: tgUserID,
		Name:           strings.TrimSpace(form.Name),
		Phone:          phone,
		Guests:         form.Guests,
		Date:           form.Date,
		Time:           form.Time,
		Comment:        strings.TrimSpace(form.Comment),
		Status:         models.BookingNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = config.DB.ExecContext(ctx, `
		INSERT INTO bookings (id, restaurant_id, telegram_user_id, name, phone, guests, booking_date, booking_time, comment, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.RestaurantID, b.TelegramUserID, b.Name, b.Phone, b.Guests, b.Date, b.Time, b.Comment, b.Status)
	if err != nil {
		zap.L().Error("booking: insert", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось создать бронь",
		})
	}

	zap.L().Info("booking created",
		zap.String("id", b.ID),
		zap.Int64("restaurant_id", b.RestaurantID),
		zap.Int64("tg_user_id", b.TelegramUserID),
	)

	// Notif jalan di background, response tidak nunggu Telegram
	go func(name string, b models.Booking) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := Notifier.BookingCreated(ctx, name, b); err != nil {
			zap.L().Warn("booking notify failed", zap.String("id", b.ID), zap.Error(err))
		}
	}(restaurant.Name, b)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Бронь принята, мы свяжемся с вами для подтверждения",
		"data":    b,
	})
}

// GetMyBookings - booking milik user Telegram yang sedang login
func GetMyBookings(c *fiber.Ctx) error {
	tgUserID, _ := c.Locals("tg_user_id").(int64)

	rows, err := config.DB.QueryContext(c.UserContext(),
		"SELECT "+bookingColumns+" FROM bookings WHERE telegram_user_id = ? ORDER BY booking_date DESC, booking_time DESC LIMIT 50",
		tgUserID,
	)
	if err != nil {
		zap.L().Error("my bookings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось загрузить брони",
		})
	}
	defer rows.Close()

	bookings := collectBookings(rows)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    bookings,
	})
}

// GetBookings - list booking untuk panel staff dengan pagination.
// Manager hanya bisa lihat restorannya sendiri.
func GetBookings(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	// Validasi pagination
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	where := " WHERE 1=1"
	args := []interface{}{}

	restaurantID, scoped := c.Locals("restaurant_id").(int64)
	role, _ := c.Locals("role").(string)
	if role == models.RoleManager {
		if !scoped {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Менеджер не привязан к ресторану",
			})
		}
		where += " AND restaurant_id = ?"
		args = append(args, restaurantID)
	} else if q := c.QueryInt("restaurant_id", 0); q > 0 {
		where += " AND restaurant_id = ?"
		args = append(args, q)
	}

	if status := c.Query("status"); status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}
	if date := c.Query("date"); date != "" {
		where += " AND booking_date = ?"
		args = append(args, date)
	}

	ctx := c.UserContext()

	var totalData int
	if err := config.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings"+where, args...).Scan(&totalData); err != nil {
		zap.L().Error("count bookings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось посчитать брони",
		})
	}

	query := "SELECT " + bookingColumns + " FROM bookings" + where + " ORDER BY booking_date ASC, booking_time ASC LIMIT ? OFFSET ?"
	rows, err := config.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		zap.L().Error("list bookings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось загрузить брони",
		})
	}
	defer rows.Close()

	bookings := collectBookings(rows)

	totalPages := (totalData + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success": true,
		"data":    bookings,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total_data":  totalData,
			"total_pages": totalPages,
		},
	})
}

var bookingTransitions = map[string]bool{
	models.BookingConfirmed: true,
	models.BookingCancelled: true,
	models.BookingDone:      true,
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Некорректный id брони",
		})
	}

	var req models.UpdateBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if !bookingTransitions[req.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Статус должен быть confirmed, cancelled или done",
		})
	}

	query := "UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ?"
	args := []interface{}{req.Status, id}
	if role, _ := c.Locals("role").(string); role == models.RoleManager {
		restaurantID, _ := c.Locals("restaurant_id").(int64)
		query += " AND restaurant_id = ?"
		args = append(args, restaurantID)
	}

	result, err := config.DB.ExecContext(c.UserContext(), query, args...)
	if err != nil {
		zap.L().Error("update booking status", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Не удалось обновить бронь",
		})
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Бронь не найдена",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Статус брони обновлён",
	})
}
