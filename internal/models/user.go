package models

import (
	"database/sql"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

/*
|--------------------------------------------------------------------------
| DATABASE MODEL (INTERNAL)
|--------------------------------------------------------------------------
| Staff restoran, login lewat panel admin
*/
type User struct {
	ID           int64
	Name         string
	Email        string
	Password     string
	Role         string
	IsBanned     string
	RestaurantID sql.NullInt64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

/*
|--------------------------------------------------------------------------
| REQUEST
|--------------------------------------------------------------------------
*/
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

/*
|--------------------------------------------------------------------------
| RESPONSE DTO
|--------------------------------------------------------------------------
*/
type UserResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RestaurantID *int64 `json:"restaurant_id,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

/*
|--------------------------------------------------------------------------
| MAPPER
|--------------------------------------------------------------------------
| Convert User (DB) -> UserResponse (API)
*/
func ToUserResponse(u User) UserResponse {
	var restaurantID *int64

	if u.RestaurantID.Valid {
		restaurantID = &u.RestaurantID.Int64
	}

	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		RestaurantID: restaurantID,
	}
}
