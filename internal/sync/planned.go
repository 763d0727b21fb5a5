// Package sync derives the "planned for smoking" flags of source items from
// a weekly plan.
//
// An item counts as planned when its base id occurs anywhere in the plan.
// Split parts ("<base>::partN") count towards their base. The smoking date is
// the earliest day the base id occurs on.
package sync

import (
	"time"

	"github.com/danieljhkim/smokeplan/internal/grid"
)

// Status is the planned flag of one source item.
type Status struct {
	Item        grid.Item `json:"item"`
	BaseID      string    `json:"baseId"`
	Planned     bool      `json:"planned"`
	SmokingDate string    `json:"smokingDate,omitempty"`
}

// PlannedDates maps every base id in g to the earliest date it is placed on.
func PlannedDates(g grid.Grid, d grid.Dimensions, weekStart time.Time) map[string]time.Time {
	dates := make(map[string]time.Time)
	for _, k := range d.Keys() {
		day := weekStart.AddDate(0, 0, k.Day)
		for _, it := range g[k] {
			base := grid.StripPart(it.ID())
			if prev, ok := dates[base]; !ok || day.Before(prev) {
				dates[base] = day
			}
		}
	}
	return dates
}

// PlannedStatus reports, for each item in order, whether the plan contains it.
func PlannedStatus(items []grid.Item, g grid.Grid, d grid.Dimensions, weekStart time.Time) []Status {
	dates := PlannedDates(g, d, weekStart)
	out := make([]Status, 0, len(items))
	for _, it := range items {
		base := grid.StripPart(it.ID())
		st := Status{Item: it, BaseID: base}
		if day, ok := dates[base]; ok {
			st.Planned = true
			st.SmokingDate = day.Format(grid.DateLayout)
		}
		out = append(out, st)
	}
	return out
}

// FilterUnplanned returns the items the plan does not contain yet.
func FilterUnplanned(items []grid.Item, g grid.Grid, d grid.Dimensions, weekStart time.Time) []grid.Item {
	out := []grid.Item{}
	for _, st := range PlannedStatus(items, g, d, weekStart) {
		if !st.Planned {
			out = append(out, st.Item)
		}
	}
	return out
}
