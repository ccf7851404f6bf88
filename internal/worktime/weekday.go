package worktime

import "time"

// Kode hari dipakai sebagai kunci antara jadwal dan query.
const (
	Monday    = "пн"
	Tuesday   = "вт"
	Wednesday = "ср"
	Thursday  = "чт"
	Friday    = "пт"
	Saturday  = "сб"
	Sunday    = "вс"
)

// Weekdays - urutan tetap, Senin dulu
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IndexOf returns the position of code in Weekdays or -1.
func IndexOf(code string) int {
	for i, w := range Weekdays {
		if w == code {
			return i
		}
	}
	return -1
}

func IsWeekday(code string) bool {
	return IndexOf(code) >= 0
}

// Previous returns the day code before code, wrapping вс -> пн backwards.
// Unknown codes give "".
func Previous(code string) string {
	i := IndexOf(code)
	if i < 0 {
		return ""
	}
	return Weekdays[(i+len(Weekdays)-1)%len(Weekdays)]
}

// Next returns the day code after code, "" for unknown codes.
func Next(code string) string {
	i := IndexOf(code)
	if i < 0 {
		return ""
	}
	return Weekdays[(i+1)%len(Weekdays)]
}

// WeekdayOf maps time.Weekday (Sunday = 0) onto the Monday-first codes.
func WeekdayOf(d time.Weekday) string {
	return Weekdays[(int(d)+6)%7]
}
