package helper

import (
	"time"

	"restoran-miniapp/internal/config"
	"restoran-miniapp/internal/worktime"
)

// StatusAt hitung status restoran untuk waktu tertentu.
// Waktu dikonversi dulu ke jam lokal venue.
func StatusAt(schedule []worktime.Interval, now time.Time) worktime.Status {
	weekday, clock := worktime.At(now.In(config.VenueLocation()))
	return worktime.Check(schedule, weekday, clock)
}
