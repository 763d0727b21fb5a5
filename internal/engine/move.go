package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/planner"
)

// Move swaps the occupants of two slots if the rule engine accepts it.
// A rejected move leaves the stored plan untouched and returns
// ErrMoveRejected wrapping the *planner.Violation.
func (e *Engine) Move(ctx context.Context, req *MoveRequest) (*MoveResult, error) {
	defer e.observe("move", e.clock.Now())

	week, _, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}
	plan, g, err := e.loadPlan(ctx, week)
	if err != nil {
		return nil, err
	}
	if err := checkSlot(plan.Dimensions, req.Src); err != nil {
		return nil, err
	}
	if err := checkSlot(plan.Dimensions, req.Dst); err != nil {
		return nil, err
	}

	before := quantity(g[req.Src]) + quantity(g[req.Dst])
	ok, v := e.rules.TryMove(g, req.Src, req.Dst, planner.MoveOptions{
		Confirm:    req.Confirm,
		AllowSplit: req.AllowSplit || e.cfg.Move.AllowSplit,
	})
	if !ok {
		e.metrics.ObserveMove(false, v.RuleID)
		e.log.Printf("move week=%s %s -> %s rejected by %s: %s", week, req.Src, req.Dst, v.RuleID, v.Message)
		return nil, fmt.Errorf("%w: %w", ErrMoveRejected, v)
	}

	if err := e.savePlan(ctx, plan, g); err != nil {
		return nil, err
	}
	e.metrics.ObserveMove(true, "")
	e.log.Printf("move week=%s %s -> %s revision=%s", week, req.Src, req.Dst, plan.Revision)

	dropped := before - quantity(g[req.Src]) - quantity(g[req.Dst])
	if dropped <= 1e-9 {
		dropped = 0
	} else {
		e.log.Printf("move week=%s %s -> %s dropped split remainder %g", week, req.Src, req.Dst, dropped)
	}

	return &MoveResult{
		Week:     week,
		Src:      req.Src,
		Dst:      req.Dst,
		SrcItems: g[req.Src],
		DstItems: g[req.Dst],
		Revision: plan.Revision,
		Dropped:  dropped,
	}, nil
}

func quantity(items []grid.Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Quantity
	}
	return sum
}
