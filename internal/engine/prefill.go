package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/smokeplan/internal/state"
)

// Prefill builds the plan of a week from items and saves it.
func (e *Engine) Prefill(ctx context.Context, req *PrefillRequest) (*PrefillResult, error) {
	defer e.observe("prefill", e.clock.Now())

	week, _, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}

	replaced := false
	if _, err := e.store.LoadPlan(ctx, week); err == nil {
		if !req.Replace && !req.DryRun {
			return nil, fmt.Errorf("week %s: %w", week, ErrPlanExists)
		}
		replaced = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check existing plan: %w", err)
	}

	d := e.cfg.Dimensions()
	g, report := e.rules.Prefill(req.Items, d)

	e.log.Printf("prefill week=%s items=%d groups=%d placements=%d placed=%.2f unplaced=%d",
		week, len(req.Items), report.Groups, report.Placements, report.PlacedQty, len(report.Unplaced))
	var unplacedQty float64
	for _, u := range report.Unplaced {
		unplacedQty += u.Remaining
		e.log.Printf("prefill week=%s unplaced %q %s: %.2f of %.2f", week, u.Name, u.Unit, u.Remaining, u.Requested)
	}
	e.metrics.ObservePrefill(report.Placements, unplacedQty)

	plan := state.NewPlanState(week, d, g, e.clock.Now())
	plan.Unplaced = report.Unplaced
	result := &PrefillResult{Week: week, Plan: plan, Report: report, Replaced: replaced && !req.DryRun}

	if req.DryRun {
		if err := e.archives.Seal(plan); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := e.savePlan(ctx, plan, g); err != nil {
		return nil, err
	}
	result.Saved = true
	return result, nil
}
