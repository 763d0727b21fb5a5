package engine

import (
	"context"
	"errors"

	"github.com/danieljhkim/smokeplan/internal/persist"
)

// Show loads a plan for display with per-day, per-smoker loads.
func (e *Engine) Show(ctx context.Context, req *ShowRequest) (*ShowResult, error) {
	week, start, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}
	plan, g, err := e.loadPlan(ctx, week)
	if err != nil {
		return nil, err
	}

	d := plan.Dimensions
	loads := make([][]float64, d.Days)
	for day := range loads {
		loads[day] = make([]float64, d.Units)
	}
	for _, k := range d.Keys() {
		for _, it := range g[k] {
			loads[k.Day][k.Unit-1] += it.RawOrQuantity()
		}
	}

	verified := true
	if err := e.archives.Verify(plan); err != nil {
		if !errors.Is(err, persist.ErrDigestMismatch) {
			return nil, err
		}
		verified = false
		e.log.Printf("show week=%s: %v", week, err)
	}

	return &ShowResult{
		Week:       week,
		WeekStart:  start,
		Dimensions: d,
		Plan:       plan,
		Grid:       g,
		Loads:      loads,
		Verified:   verified,
	}, nil
}
