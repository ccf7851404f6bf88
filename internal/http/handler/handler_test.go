package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"restoran-miniapp/internal/models"
	"restoran-miniapp/internal/worktime"
)

func fixture() []worktime.Interval {
	return []worktime.Interval{
		{Weekday: "пн", TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: "вт", TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: "ср", TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: "чт", TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: "пт", TimeStart: "13:00", TimeEnd: "01:00"},
		{Weekday: "сб", TimeStart: "13:00", TimeEnd: "01:00"},
		{Weekday: "вс", TimeStart: "13:00", TimeEnd: "23:00"},
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestPreviewStatus(t *testing.T) {
	app := fiber.New()
	app.Post("/api/worktime/status", PreviewStatus)

	cases := []struct {
		weekday string
		time    string
		want    string
		open    bool
	}{
		{"пн", "16:59", "Откроется в 17:00", false},
		{"пн", "17:00", "Открыто до 23:00", true},
		{"пт", "23:59", "Открыто до 01:00", true},
		{"сб", "00:30", "Открыто до 01:00", true},
		{"сб", "01:00", "Откроется в 13:00", false},
		{"вс", "13:00", "Открыто до 23:00", true},
	}

	for _, tc := range cases {
		code, body := doJSON(t, app, http.MethodPost, "/api/worktime/status", models.StatusPreviewRequest{
			Worktime: fixture(),
			Weekday:  tc.weekday,
			Time:     tc.time,
		})

		if code != fiber.StatusOK {
			t.Fatalf("%s %s: status %d", tc.weekday, tc.time, code)
		}
		data := body["data"].(map[string]any)
		if data["status"] != tc.want || data["open"] != tc.open {
			t.Errorf("%s %s: got %v", tc.weekday, tc.time, data)
		}
	}
}

func TestPreviewStatusDefaultsToNow(t *testing.T) {
	app := fiber.New()
	app.Post("/api/worktime/status", PreviewStatus)

	code, body := doJSON(t, app, http.MethodPost, "/api/worktime/status", models.StatusPreviewRequest{
		Worktime: fixture(),
	})
	if code != fiber.StatusOK {
		t.Fatalf("status %d", code)
	}

	data := body["data"].(map[string]any)
	if !worktime.IsWeekday(data["weekday"].(string)) {
		t.Fatalf("weekday not filled: %v", data)
	}
	if _, ok := worktime.ParseClock(data["time"].(string)); !ok {
		t.Fatalf("time not filled: %v", data)
	}
}

func TestPreviewStatusBadBody(t *testing.T) {
	app := fiber.New()
	app.Post("/api/worktime/status", PreviewStatus)

	req := httptest.NewRequest(http.MethodPost, "/api/worktime/status", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestValidateWorktime(t *testing.T) {
	if err := ValidateWorktime(fixture()); err != nil {
		t.Fatalf("fixture should be valid: %v", err)
	}
	if err := ValidateWorktime(nil); err != nil {
		t.Fatalf("empty schedule should be valid: %v", err)
	}

	bad := []struct {
		name     string
		schedule []worktime.Interval
	}{
		{"unknown day", []worktime.Interval{{Weekday: "mon", TimeStart: "10:00", TimeEnd: "20:00"}}},
		{"duplicate day", []worktime.Interval{
			{Weekday: "пн", TimeStart: "10:00", TimeEnd: "20:00"},
			{Weekday: "пн", TimeStart: "11:00", TimeEnd: "21:00"},
		}},
		{"bad clock", []worktime.Interval{{Weekday: "пн", TimeStart: "10:00:00", TimeEnd: "20:00"}}},
		{"24h", []worktime.Interval{{Weekday: "пн", TimeStart: "24:00", TimeEnd: "20:00"}}},
		{"empty length", []worktime.Interval{{Weekday: "пн", TimeStart: "10:00", TimeEnd: "10:00"}}},
	}

	for _, tc := range bad {
		if err := ValidateWorktime(tc.schedule); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestBookingHandlersRejectBeforeStorage(t *testing.T) {
	app := fiber.New()
	app.Post("/restaurants/:id/bookings", CreateBooking)
	app.Put("/bookings/:id/status", UpdateBookingStatus)
	app.Get("/bookings", func(c *fiber.Ctx) error {
		c.Locals("role", models.RoleManager)
		return c.Next()
	}, GetBookings)

	code, _ := doJSON(t, app, http.MethodPost, "/restaurants/abc/bookings", map[string]any{})
	if code != fiber.StatusBadRequest {
		t.Errorf("bad restaurant id: %d", code)
	}

	code, _ = doJSON(t, app, http.MethodPut, "/bookings/not-a-uuid/status", map[string]any{"status": "confirmed"})
	if code != fiber.StatusBadRequest {
		t.Errorf("bad booking id: %d", code)
	}

	code, _ = doJSON(t, app, http.MethodPut, "/bookings/6f1c2f1e-8d59-4a43-9a3b-1f0f0e0b6a11/status", map[string]any{"status": "new"})
	if code != fiber.StatusBadRequest {
		t.Errorf("bad transition: %d", code)
	}

	code, _ = doJSON(t, app, http.MethodGet, "/bookings", nil)
	if code != fiber.StatusForbidden {
		t.Errorf("unscoped manager: %d", code)
	}
}

func TestNormalizeBookingRow(t *testing.T) {
	b := normalizeBookingRow(models.Booking{Date: "2026-10-17T00:00:00Z", Time: "19:30:00"})
	if b.Date != "2026-10-17" || b.Time != "19:30" {
		t.Fatalf("got %s %s", b.Date, b.Time)
	}
}

// fakeBookingRows yields one row per entry; a non-nil error fails that Scan
type fakeBookingRows struct {
	rows []error
	pos  int
}

func (f *fakeBookingRows) Next() bool {
	f.pos++
	return f.pos <= len(f.rows)
}

func (f *fakeBookingRows) Scan(dest ...any) error {
	if err := f.rows[f.pos-1]; err != nil {
		return err
	}
	*dest[0].(*string) = "row-" + strconv.Itoa(f.pos)
	return nil
}

func (f *fakeBookingRows) Err() error { return nil }

func TestCollectBookingsLogsScanErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	rows := &fakeBookingRows{rows: []error{nil, errors.New("bad DATE value"), nil}}
	got := collectBookings(rows)

	if len(got) != 2 || got[0].ID != "row-1" || got[1].ID != "row-3" {
		t.Fatalf("got %+v", got)
	}

	entries := logs.FilterMessage("scan booking row").All()
	if len(entries) != 1 {
		t.Fatalf("warn entries = %d", len(entries))
	}
	if err, _ := entries[0].ContextMap()["error"].(string); err != "bad DATE value" {
		t.Fatalf("logged error = %v", entries[0].ContextMap())
	}
}

func TestWSUpgradeRejectsPlainHTTP(t *testing.T) {
	app := fiber.New()
	app.Get("/ws/status", WSUpgrade, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/status", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/", Health)

	code, body := doJSON(t, app, http.MethodGet, "/", nil)
	if code != fiber.StatusOK || body["message"] == nil {
		t.Fatalf("got %d %v", code, body)
	}
}
