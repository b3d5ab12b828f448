package marketcal

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestNextTradingDaysShape(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	// Wednesday 2024-06-12, mid-session.
	ref := time.Date(2024, 6, 12, 11, 30, 0, 0, ny)

	days := NextTradingDays(ref, ny, 5)
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	for i, d := range days {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("day %d (%s) falls on %s", i, d, wd)
		}
		if i > 0 && !days[i-1].Date(ny).Before(d.Date(ny)) {
			t.Errorf("days not strictly increasing: %s then %s", days[i-1], d)
		}
	}
}

func TestNextTradingDaysCutoff(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	tests := []struct {
		name  string
		ref   time.Time
		first string
	}{
		{
			name:  "weekday before close includes reference day",
			ref:   time.Date(2024, 6, 11, 15, 59, 59, 0, ny), // Tuesday
			first: "2024-06-11",
		},
		{
			name:  "exactly 16:00 counts as after close",
			ref:   time.Date(2024, 6, 11, 16, 0, 0, 0, ny), // Tuesday
			first: "2024-06-12",
		},
		{
			name:  "friday after close skips the weekend",
			ref:   time.Date(2024, 6, 7, 16, 0, 0, 0, ny), // Friday
			first: "2024-06-10",
		},
		{
			name:  "saturday rolls to monday regardless of hour",
			ref:   time.Date(2024, 6, 8, 3, 0, 0, 0, ny), // Saturday
			first: "2024-06-10",
		},
		{
			name:  "sunday rolls to monday",
			ref:   time.Date(2024, 6, 9, 22, 0, 0, 0, ny), // Sunday
			first: "2024-06-10",
		},
		{
			name:  "dst spring forward sunday",
			ref:   time.Date(2024, 3, 10, 1, 30, 0, 0, ny), // Sunday, DST transition day
			first: "2024-03-11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := NextTradingDays(tt.ref, ny, 5)
			if len(days) != 5 {
				t.Fatalf("expected 5 days, got %d", len(days))
			}
			if got := days[0].String(); got != tt.first {
				t.Errorf("first day = %s, want %s", got, tt.first)
			}
		})
	}
}

func TestNextTradingDaysTimezoneAware(t *testing.T) {
	// The same instant is after close in Kolkata but mid-morning in New York.
	ref := time.Date(2024, 6, 11, 11, 0, 0, 0, time.UTC) // Tuesday 16:30 IST, 07:00 EDT

	ist, err := NextTradingDaysIn(ref, "Asia/Kolkata", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := ist[0].String(); got != "2024-06-12" {
		t.Errorf("Kolkata first day = %s, want 2024-06-12", got)
	}

	ny, err := NextTradingDaysIn(ref, "America/New_York", 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := ny[0].String(); got != "2024-06-11" {
		t.Errorf("New York first day = %s, want 2024-06-11", got)
	}
}

func TestNextTradingDaysIdempotent(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	ref := time.Date(2024, 6, 13, 9, 15, 0, 0, ny)

	a := NextTradingDays(ref, ny, 5)
	b := NextTradingDays(ref, ny, 5)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("day %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestNextTradingDaysDegenerateCount(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	ref := time.Date(2024, 6, 11, 10, 0, 0, 0, ny)

	if days := NextTradingDays(ref, ny, 0); days != nil {
		t.Errorf("count 0: expected nil, got %v", days)
	}
	if days := NextTradingDays(ref, ny, -3); days != nil {
		t.Errorf("negative count: expected nil, got %v", days)
	}
}

func TestNextTradingDaysInBadTimezone(t *testing.T) {
	ref := time.Date(2024, 6, 11, 10, 0, 0, 0, time.UTC)
	if _, err := NextTradingDaysIn(ref, "Nowhere/Invalid", 5); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestNextTradingDaysLongWalk(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	ref := time.Date(2024, 6, 10, 9, 0, 0, 0, ny) // Monday

	days := NextTradingDays(ref, ny, 22)
	if len(days) != 22 {
		t.Fatalf("expected 22 days, got %d", len(days))
	}
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if seen[d.String()] {
			t.Errorf("duplicate day %s", d)
		}
		seen[d.String()] = true
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("weekend day %s in result", d)
		}
	}
}
