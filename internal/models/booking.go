package models

import "time"

const (
	BookingNew       = "new"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingDone      = "done"
)

type Booking struct {
	ID             string    `json:"id"`
	RestaurantID   int64     `json:"restaurant_id"`
	TelegramUserID int64     `json:"telegram_user_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Guests         int       `json:"guests"`
	Date           string    `json:"date"` // format: "YYYY-MM-DD"
	Time           string    `json:"time"` // format: "HH:MM"
	Comment        string    `json:"comment"`
	Status         string    `json:"status"` // new, confirmed, cancelled, done
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled done"`
}

// TelegramUser - field "user" dari initData Telegram WebApp
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Language  string `json:"language_code"`
}
