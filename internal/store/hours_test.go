package store

import (
	"testing"
	"time"
)

// clock builds a time on a known weekday: 2025-06-15 is a Sunday (weekday 0).
func clock(weekday, hour, minute int) time.Time {
	return time.Date(2025, 6, 15+weekday, hour, minute, 0, 0, time.UTC)
}

func TestOpenNowBoundaries(t *testing.T) {
	schedule := []BusinessHour{
		{Weekday: 1, OpensAt: "09:00", ClosesAt: "17:00"},
	}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"minute before opening", clock(1, 8, 59), false},
		{"opening minute is open", clock(1, 9, 0), true},
		{"midday", clock(1, 12, 30), true},
		{"last minute before close", clock(1, 16, 59), true},
		{"closing minute is closed", clock(1, 17, 0), false},
		{"same time wrong day", clock(2, 12, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OpenNow(schedule, tc.at); got != tc.want {
				t.Fatalf("OpenNow at %s = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestOpenNowOvernightSpan(t *testing.T) {
	// Friday bar hours spilling into Saturday morning.
	schedule := []BusinessHour{
		{Weekday: 5, OpensAt: "20:00", ClosesAt: "02:00"},
	}

	if !OpenNow(schedule, clock(5, 23, 30)) {
		t.Fatal("expected open late on the opening day")
	}
	if !OpenNow(schedule, clock(6, 1, 59)) {
		t.Fatal("expected open past midnight on the following day")
	}
	if OpenNow(schedule, clock(6, 2, 0)) {
		t.Fatal("expected closed at the overnight closing minute")
	}
	if OpenNow(schedule, clock(5, 19, 59)) {
		t.Fatal("expected closed before opening")
	}
}

func TestOpenNowEmptyScheduleAndBadRows(t *testing.T) {
	if OpenNow(nil, clock(0, 12, 0)) {
		t.Fatal("empty schedule must never be open")
	}

	// malformed rows are skipped, not treated as open
	schedule := []BusinessHour{
		{Weekday: 0, OpensAt: "soon", ClosesAt: "later"},
	}
	if OpenNow(schedule, clock(0, 12, 0)) {
		t.Fatal("malformed interval must not count as open")
	}
}
