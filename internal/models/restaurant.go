package models

import (
	"time"

	"restoran-miniapp/internal/worktime"
)

type Restaurant struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Address   string              `json:"address"`
	Phone     string              `json:"phone"`
	IsActive  string              `json:"is_active"`
	Worktime  []worktime.Interval `json:"worktime"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// RestaurantWithStatus - response list restoran untuk mini app
type RestaurantWithStatus struct {
	Restaurant
	Open   bool   `json:"open"`
	Status string `json:"status"` // "Открыто до 23:00" / "Откроется в 17:00"
}

type CreateRestaurantRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Address  string `json:"address" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	IsActive string `json:"is_active" validate:"omitempty,oneof=y n"`
}

type UpdateRestaurantRequest struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	IsActive string `json:"is_active" validate:"omitempty,oneof=y n"`
}

type UpdateWorktimeRequest struct {
	Worktime []worktime.Interval `json:"worktime"`
}

// StatusPreviewRequest - hitung status untuk jadwal yang dikirim client
type StatusPreviewRequest struct {
	Worktime []worktime.Interval `json:"worktime"`
	Weekday  string              `json:"weekday"`
	Time     string              `json:"time"`
}
