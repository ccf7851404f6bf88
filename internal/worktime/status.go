package worktime

import (
	"strconv"
	"strings"
)

const (
	openPrefix    = "Открыто до "
	openingPrefix = "Откроется в "
	closedMessage = "Закрыто"
)

// Interval - jam buka untuk satu hari. TimeEnd < TimeStart berarti
// interval melewati tengah malam (contoh: 13:00 - 01:00).
type Interval struct {
	Weekday   string `json:"weekday"`
	TimeStart string `json:"time_start"` // format: "HH:MM"
	TimeEnd   string `json:"time_end"`   // format: "HH:MM"
}

// Overnight reports whether the interval ends after midnight.
func (iv Interval) Overnight() bool {
	start, okStart := ParseClock(iv.TimeStart)
	end, okEnd := ParseClock(iv.TimeEnd)
	return okStart && okEnd && end < start
}

// Status is the structured result of Check. At holds the closing time when
// Open, otherwise the next opening time ("" when nothing is known).
type Status struct {
	Open bool   `json:"open"`
	At   string `json:"at"`
}

func (s Status) Message() string {
	if s.Open {
		return openPrefix + s.At
	}
	if s.At == "" {
		return closedMessage
	}
	return openingPrefix + s.At
}

// Resolve returns "Открыто до HH:MM" or "Откроется в HH:MM" for the given
// venue-local weekday code and "HH:MM" time. An empty schedule has no
// opening time to report and yields "Закрыто" instead.
func Resolve(worktime []Interval, weekday, now string) string {
	return Check(worktime, weekday, now).Message()
}

// Check classifies now against the weekly schedule. It never fails:
// unknown weekdays, malformed times and missing days fall back to the
// "will open" answer.
func Check(worktime []Interval, weekday, now string) Status {
	today, hasToday := find(worktime, weekday)
	fallback := Status{At: Normalize(today.TimeStart)}
	if !hasToday {
		fallback = Status{At: nextStart(worktime, weekday)}
	}

	t, ok := ParseClock(now)
	if !ok {
		return fallback
	}

	if hasToday {
		start, okStart := ParseClock(today.TimeStart)
		end, okEnd := ParseClock(today.TimeEnd)
		if okStart && okEnd {
			if t >= start && t < end {
				return Status{Open: true, At: Normalize(today.TimeEnd)}
			}
			// Interval lewat tengah malam, sudah buka sejak start hari ini
			if end < start && t >= start {
				return Status{Open: true, At: Normalize(today.TimeEnd)}
			}
		}
	}

	// Dini hari: masih di ekor interval kemarin
	if yesterday, ok := find(worktime, Previous(weekday)); ok {
		start, okStart := ParseClock(yesterday.TimeStart)
		end, okEnd := ParseClock(yesterday.TimeEnd)
		if okStart && okEnd && end < start && t < end {
			return Status{Open: true, At: Normalize(yesterday.TimeEnd)}
		}
	}

	// Belum buka hari ini atau sudah tutup: dua-duanya jatuh ke jam buka hari ini
	return fallback
}

// ParseClock converts "HH:MM" (or "HH:MM:SS" as stored by MySQL TIME) into
// minutes since midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	h, ok := twoDigits(parts[0])
	if !ok || h > 23 {
		return 0, false
	}

	m, ok := twoDigits(parts[1])
	if !ok || m > 59 {
		return 0, false
	}

	// detik dari MySQL TIME cuma divalidasi, tidak ikut dihitung
	if len(parts) == 3 {
		if sec, ok := twoDigits(parts[2]); !ok || sec > 59 {
			return 0, false
		}
	}

	return h*60 + m, true
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// FormatClock is the inverse of ParseClock, wrapping at 24h.
func FormatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	h, m := minutes/60, minutes%60
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func find(worktime []Interval, weekday string) (Interval, bool) {
	if weekday == "" {
		return Interval{}, false
	}
	for _, iv := range worktime {
		if iv.Weekday == weekday {
			return iv, true
		}
	}
	return Interval{}, false
}

// nextStart walks forward from weekday and returns the first start time it
// finds. Used only when today has no interval at all.
func nextStart(worktime []Interval, weekday string) string {
	day := weekday
	for i := 0; i < len(Weekdays); i++ {
		day = Next(day)
		if day == "" {
			break
		}
		if iv, ok := find(worktime, day); ok {
			return Normalize(iv.TimeStart)
		}
	}

	// Weekday tidak dikenal: ambil interval pertama yang ada
	if len(worktime) > 0 {
		return Normalize(worktime[0].TimeStart)
	}
	return ""
}

// Normalize trims a "HH:MM:SS" value down to "HH:MM".
func Normalize(s string) string {
	if m, ok := ParseClock(s); ok {
		return FormatClock(m)
	}
	return s
}
