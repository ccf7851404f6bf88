package worktime

import "testing"

func fixture() []Interval {
	return []Interval{
		{Weekday: Monday, TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: Tuesday, TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: Wednesday, TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: Thursday, TimeStart: "17:00", TimeEnd: "23:00"},
		{Weekday: Friday, TimeStart: "13:00", TimeEnd: "01:00"},
		{Weekday: Saturday, TimeStart: "13:00", TimeEnd: "01:00"},
		{Weekday: Sunday, TimeStart: "13:00", TimeEnd: "23:00"},
	}
}

func TestResolveFixtureSchedule(t *testing.T) {
	cases := []struct {
		weekday string
		now     string
		want    string
	}{
		{"пн", "16:59", "Откроется в 17:00"},
		{"пн", "17:00", "Открыто до 23:00"},
		{"пн", "22:59", "Открыто до 23:00"},
		{"пт", "23:59", "Открыто до 01:00"},
		{"пт", "13:00", "Открыто до 01:00"},
		{"пт", "12:59", "Откроется в 13:00"},
		{"сб", "00:30", "Открыто до 01:00"},
		{"сб", "01:00", "Откроется в 13:00"},
		{"вс", "00:59", "Открыто до 01:00"},
		{"вс", "13:00", "Открыто до 23:00"},
		{"пн", "00:30", "Откроется в 17:00"},
	}

	for _, tc := range cases {
		got := Resolve(fixture(), tc.weekday, tc.now)
		if got != tc.want {
			t.Errorf("Resolve(%s, %s) = %q, want %q", tc.weekday, tc.now, got, tc.want)
		}
	}
}

func TestResolveAfterCloseFallsBackToTodayStart(t *testing.T) {
	got := Resolve(fixture(), "пн", "23:00")
	if got != "Откроется в 17:00" {
		t.Fatalf("got %q", got)
	}

	got = Resolve(fixture(), "вт", "23:30")
	if got != "Откроется в 17:00" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveOvernightGap(t *testing.T) {
	schedule := []Interval{
		{Weekday: Friday, TimeStart: "13:00", TimeEnd: "01:00"},
		{Weekday: Saturday, TimeStart: "13:00", TimeEnd: "01:00"},
	}

	for _, now := range []string{"01:00", "06:00", "12:59"} {
		if got := Resolve(schedule, Saturday, now); got != "Откроется в 13:00" {
			t.Errorf("сб %s: got %q", now, got)
		}
	}
}

func TestResolveUnorderedInput(t *testing.T) {
	schedule := fixture()
	reversed := make([]Interval, 0, len(schedule))
	for i := len(schedule) - 1; i >= 0; i-- {
		reversed = append(reversed, schedule[i])
	}

	if got := Resolve(reversed, "сб", "00:30"); got != "Открыто до 01:00" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	schedule := fixture()
	first := Resolve(schedule, "пт", "23:59")
	second := Resolve(schedule, "пт", "23:59")
	if first != second {
		t.Fatalf("results differ: %q vs %q", first, second)
	}
}

func TestResolveDegradesOnBadInput(t *testing.T) {
	cases := []struct {
		name     string
		schedule []Interval
		weekday  string
		now      string
		want     string
	}{
		{"unknown weekday", fixture(), "mon", "18:00", "Откроется в 17:00"},
		{"malformed time", fixture(), "пн", "18h", "Откроется в 17:00"},
		{"missing day uses next", []Interval{{Weekday: Wednesday, TimeStart: "10:00", TimeEnd: "20:00"}}, Monday, "12:00", "Откроется в 10:00"},
		{"empty schedule", nil, Monday, "12:00", "Закрыто"},
		{"seconds from db", []Interval{{Weekday: Monday, TimeStart: "17:00:00", TimeEnd: "23:00:00"}}, Monday, "18:00", "Открыто до 23:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.schedule, tc.weekday, tc.now); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGarbageSecondsDoNotOpen(t *testing.T) {
	schedule := []Interval{{Weekday: Monday, TimeStart: "10:00:zz", TimeEnd: "20:00"}}

	if st := Check(schedule, Monday, "12:00"); st.Open {
		t.Fatalf("malformed start treated as open: %+v", st)
	}
}

func TestMissingTodayStillSeesYesterdayTail(t *testing.T) {
	schedule := []Interval{{Weekday: Saturday, TimeStart: "18:00", TimeEnd: "03:00"}}

	if got := Resolve(schedule, Sunday, "02:00"); got != "Открыто до 03:00" {
		t.Fatalf("got %q", got)
	}
	if got := Resolve(schedule, Sunday, "04:00"); got != "Откроется в 18:00" {
		t.Fatalf("got %q", got)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"17:00:00", 1020, true},
		{"24:00", 0, false},
		{"7:00", 0, false},
		{"12:60", 0, false},
		{"", 0, false},
		{"10:00:59", 600, true},
		{"10:00:zz", 0, false},
		{"10:00:60", 0, false},
		{"10:00:5", 0, false},
		{"+7:00", 0, false},
		{"10:-1", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseClock(%q) = %d, %v", tc.in, got, ok)
		}
	}
}

func TestOvernight(t *testing.T) {
	if !(Interval{TimeStart: "13:00", TimeEnd: "01:00"}).Overnight() {
		t.Error("13:00-01:00 should be overnight")
	}
	if (Interval{TimeStart: "17:00", TimeEnd: "23:00"}).Overnight() {
		t.Error("17:00-23:00 should not be overnight")
	}
}
