package booking

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"restoran-miniapp/internal/worktime"
)

const (
	MaxNameLength    = 100
	MaxCommentLength = 500
	MinGuests        = 1
	MaxGuests        = 20
	MinLeadTime      = 2 * time.Hour
	MaxDaysAhead     = 60

	DateLayout = "2006-01-02"
)

var (
	phoneRegex = regexp.MustCompile(`^[78]\d{10}$`)
	timeRegex  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	phoneStrip = strings.NewReplacer(" ", "", "+", "", "-", "", "(", "", ")", "")
)

// Form - data dari form booking di mini app
type Form struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Guests  int    `json:"guests"`
	Date    string `json:"date"` // format: "YYYY-MM-DD"
	Time    string `json:"time"` // format: "HH:MM"
	Comment string `json:"comment"`
}

// FieldErrors maps a form field to the message shown under it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return strings.Join(parts, "; ")
}

// Validate checks every field of the form and returns nil when it can be
// booked. now decides the venue timezone and "today".
func Validate(form Form, schedule []worktime.Interval, now time.Time) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		errs["name"] = "Укажите имя"
	case utf8.RuneCountInString(name) > MaxNameLength:
		errs["name"] = fmt.Sprintf("Имя не длиннее %d символов", MaxNameLength)
	}

	if form.Phone == "" {
		errs["phone"] = "Укажите телефон"
	} else if _, ok := NormalizePhone(form.Phone); !ok {
		errs["phone"] = "Телефон в формате +7XXXXXXXXXX"
	}

	if form.Guests < MinGuests || form.Guests > MaxGuests {
		errs["guests"] = fmt.Sprintf("Количество гостей от %d до %d", MinGuests, MaxGuests)
	}

	if utf8.RuneCountInString(form.Comment) > MaxCommentLength {
		errs["comment"] = fmt.Sprintf("Комментарий не длиннее %d символов", MaxCommentLength)
	}

	dateOK := validateDate(form.Date, now, errs)

	if !timeRegex.MatchString(form.Time) {
		errs["time"] = "Выберите время"
	} else if dateOK {
		at, _ := time.ParseInLocation(DateLayout+" 15:04", form.Date+" "+form.Time, now.Location())
		if at.Before(now.Add(MinLeadTime)) {
			errs["time"] = fmt.Sprintf("Бронь возможна не раньше чем за %d часа", int(MinLeadTime.Hours()))
		} else if !worktime.IsOpenAt(schedule, at) {
			errs["time"] = "Ресторан закрыт в это время"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateDate(value string, now time.Time, errs FieldErrors) bool {
	if value == "" {
		errs["date"] = "Выберите дату"
		return false
	}

	day, err := time.ParseInLocation(DateLayout, value, now.Location())
	if err != nil {
		errs["date"] = "Дата в формате ГГГГ-ММ-ДД"
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		errs["date"] = "Дата уже прошла"
		return false
	}
	if day.After(today.AddDate(0, 0, MaxDaysAhead)) {
		errs["date"] = fmt.Sprintf("Бронь доступна на %d дней вперёд", MaxDaysAhead)
		return false
	}

	return true
}

// NormalizePhone strips formatting and returns the number as 7XXXXXXXXXX.
func NormalizePhone(raw string) (string, bool) {
	digits := phoneStrip.Replace(strings.TrimSpace(raw))
	if !phoneRegex.MatchString(digits) {
		return "", false
	}
	return "7" + digits[1:], true
}
