package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/smokeplan/internal/planner"
)

// SetNote replaces the note of a slot's occupants.
func (e *Engine) SetNote(ctx context.Context, req *NoteRequest) (*EditResult, error) {
	week, _, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}
	plan, g, err := e.loadPlan(ctx, week)
	if err != nil {
		return nil, err
	}
	if err := checkSlot(plan.Dimensions, req.Slot); err != nil {
		return nil, err
	}
	if err := g.SetNote(req.Slot, req.Note); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := e.savePlan(ctx, plan, g); err != nil {
		return nil, err
	}
	return &EditResult{Week: week, Slot: req.Slot, Items: g[req.Slot], Revision: plan.Revision}, nil
}

// SetDose changes the finished quantity of a slot's first occupant.
// The new dose must still fit the slot's capacity.
func (e *Engine) SetDose(ctx context.Context, req *DoseRequest) (*EditResult, error) {
	week, _, err := e.resolveWeek(req.Week)
	if err != nil {
		return nil, err
	}
	plan, g, err := e.loadPlan(ctx, week)
	if err != nil {
		return nil, err
	}
	if err := checkSlot(plan.Dimensions, req.Slot); err != nil {
		return nil, err
	}

	edited := g.Clone()
	if err := edited.SetDose(req.Slot, req.Quantity, req.Unit); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	items := edited[req.Slot]
	capRule := &planner.CapacityRule{Table: e.rules.Capacity(), Exempt: e.rules.IsReserved}
	if out := capRule.Check(items[0], items[1:], req.Slot.Unit, planner.PhaseMove); out.Kind != planner.KindOK {
		e.log.Printf("dose week=%s %s rejected: %v", week, req.Slot, out.Violation)
		return nil, fmt.Errorf("%w: %w", ErrValidation, out.Violation)
	}

	if err := e.savePlan(ctx, plan, edited); err != nil {
		return nil, err
	}
	return &EditResult{Week: week, Slot: req.Slot, Items: items, Revision: plan.Revision}, nil
}
