package state

import (
	"fmt"
	"time"

	"github.com/danieljhkim/smokeplan/internal/grid"
)

// FormatWeek returns the plan key for the week starting at t.
func FormatWeek(t time.Time) string {
	return t.Format(grid.DateLayout)
}

// ParseWeek parses a plan key and checks that it falls on a Monday.
func ParseWeek(week string) (time.Time, error) {
	t, err := time.ParseInLocation(grid.DateLayout, week, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week %q: expected YYYY-MM-DD", week)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("invalid week %q: must be a Monday, got %s", week, t.Weekday())
	}
	return t, nil
}
