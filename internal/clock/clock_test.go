package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	before := time.Now()
	got := (&RealClock{}).Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}

	later := time.Date(2025, 9, 10, 10, 0, 0, 0, time.UTC)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("after Set, Now() = %v, want %v", c.Now(), later)
	}
	if got := NextMonday(c.Now()).Format("2006-01-02"); got != "2025-09-15" {
		t.Errorf("NextMonday(after Set) = %s, want 2025-09-15", got)
	}
}

func TestNextMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"wednesday", time.Date(2025, 9, 3, 15, 30, 0, 0, time.UTC), "2025-09-08"},
		{"sunday", time.Date(2025, 9, 7, 23, 59, 0, 0, time.UTC), "2025-09-08"},
		{"monday maps to following week", time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), "2025-09-15"},
		{"across year end", time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC), "2026-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextMonday(tt.in)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("NextMonday(%v) = %v, want %s", tt.in, got, tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Weekday() != time.Monday {
				t.Errorf("NextMonday(%v) = %v, want midnight Monday", tt.in, got)
			}
		})
	}
}
