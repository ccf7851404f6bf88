package config

import (
	"time"

	"restoran-miniapp/internal/worktime"
)

// VenueLocation - semua jadwal restoran disimpan dalam jam lokal venue
func VenueLocation() *time.Location {
	return worktime.Location(GetEnv("VENUE_TZ", "Europe/Moscow"))
}
