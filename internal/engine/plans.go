package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/state"
)

// ListPlans returns every stored plan ordered by week.
func (e *Engine) ListPlans(ctx context.Context) ([]state.PlanSummary, error) {
	plans, err := e.store.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes the plan of week.
func (e *Engine) DeletePlan(ctx context.Context, week string) error {
	week, _, err := e.resolveWeek(week)
	if err != nil {
		return err
	}
	if _, _, err := e.loadPlan(ctx, week); err != nil {
		return err
	}
	if err := e.store.DeletePlan(ctx, week); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	e.log.Printf("delete week=%s", week)
	return nil
}

// Capacity lists the slot capacity of every smoker for a category.
func (e *Engine) Capacity(category string) *CapacityResult {
	category = capacity.NormalizeCategory(category)
	table := e.rules.Capacity()
	reservedUnit := e.rules.ReservedUnit()

	sample := grid.Item{}
	if category != "" {
		sample.Category = grid.String(category)
	}
	reservedCategory := e.rules.IsReserved(sample)

	result := &CapacityResult{Category: category}
	if reservedUnit > 0 {
		result.ReservedCategory = e.cfg.Reservation.Category
	}
	for unit := 1; unit <= e.cfg.Grid.Units; unit++ {
		c := table.CapacityFor(unit, category)
		result.Rows = append(result.Rows, CapacityRow{
			Unit:      unit,
			Capacity:  c,
			Unlimited: capacity.Unlimited(c) || reservedCategory,
			Reserved:  unit == reservedUnit,
		})
	}
	return result
}
