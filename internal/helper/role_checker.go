package helper

import (
	"database/sql"
	"errors"

	"restoran-miniapp/internal/config"
)

var (
	ErrUserNotFound = errors.New("user tidak ditemukan")
	ErrUserBanned   = errors.New("user dibanned")
	ErrInvalidRole  = errors.New("role tidak sesuai")
)

func CheckUserRoleByID(userID int64, allowedRoles ...string) error {
	var role, isBanned string

	query := "SELECT role, is_banned FROM users WHERE id = ?"
	err := config.DB.QueryRow(query, userID).Scan(&role, &isBanned)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}

	if err != nil {
		return err
	}

	if isBanned == "y" {
		return ErrUserBanned
	}

	if !HasRole(role, allowedRoles...) {
		return ErrInvalidRole
	}
	return nil
}

func HasRole(role string, allowedRoles ...string) bool {
	for _, allowedRole := range allowedRoles {
		if role == allowedRole {
			return true
		}
	}
	return false
}
