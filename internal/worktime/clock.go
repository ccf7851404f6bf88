package worktime

import "time"

// moscow dipakai kalau tzdata tidak ada di container
var moscow = time.FixedZone("MSK", 3*60*60)

// Location loads the venue timezone, falling back to a fixed UTC+3 zone.
func Location(name string) *time.Location {
	if name == "" {
		return moscow
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return moscow
	}
	return loc
}

// At splits an instant into the day code and "HH:MM" clock used by Check.
func At(t time.Time) (string, string) {
	return WeekdayOf(t.Weekday()), FormatClock(t.Hour()*60 + t.Minute())
}

func Now(loc *time.Location) (string, string) {
	return At(time.Now().In(loc))
}

// IsOpenAt is Check for a concrete instant, t already in venue time.
func IsOpenAt(worktime []Interval, t time.Time) bool {
	weekday, clock := At(t)
	return Check(worktime, weekday, clock).Open
}
