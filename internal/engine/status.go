package engine

import (
	"context"
	"errors"

	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/sync"
)

// Status reports which source items the week's plan already contains.
// A missing plan reports every item as unplanned.
func (e *Engine) Status(ctx context.Context, req *StatusRequest) (*StatusResult, error) {
	week, start, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}

	d := e.cfg.Dimensions()
	g := grid.New(d)
	found := true
	plan, loaded, err := e.loadPlan(ctx, week)
	switch {
	case errors.Is(err, ErrPlanNotFound):
		found = false
	case err != nil:
		return nil, err
	default:
		d, g = plan.Dimensions, loaded
	}

	statuses := sync.PlannedStatus(req.Items, g, d, start)
	result := &StatusResult{
		Week:      week,
		PlanFound: found,
		Items:     statuses,
		Remaining: sync.FilterUnplanned(req.Items, g, d, start),
	}
	for _, st := range statuses {
		if st.Planned {
			result.Planned++
		} else {
			result.Unplanned++
		}
	}
	return result, nil
}
