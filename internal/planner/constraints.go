package planner

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

// Epsilon absorbs floating point noise in capacity comparisons.
const Epsilon = 1e-9

// Constraint checks whether an item may join the occupants of a slot on a unit.
// Implementations must be pure.
type Constraint interface {
	Name() string
	Check(item grid.Item, occupants []grid.Item, unit int, phase Phase) Outcome
}

// CategoryReservationRule dedicates one unit to one product category.
//
// Items of the reserved category may only go to the reserved unit. Other
// items may go there only after confirmation. A ReservedUnit of 0 disables
// the rule.
type CategoryReservationRule struct {
	ReservedUnit int
	Category     string

	// Matches reports whether an item belongs to the reserved category.
	Matches func(grid.Item) bool
}

// NewCategoryReservationRule creates a rule reserving unit for category.
// Items match when their name contains the category keyword or their
// category equals it, both compared case-insensitively.
func NewCategoryReservationRule(unit int, category string) *CategoryReservationRule {
	keyword := capacity.NormalizeCategory(category)
	return &CategoryReservationRule{
		ReservedUnit: unit,
		Category:     keyword,
		Matches: func(it grid.Item) bool {
			if keyword == "" {
				return false
			}
			if it.CategoryKey() == keyword {
				return true
			}
			return strings.Contains(strings.ToLower(it.Name), keyword)
		},
	}
}

// Name returns the constraint name.
func (r *CategoryReservationRule) Name() string { return "category-reservation" }

// Enabled reports whether the rule reserves anything.
func (r *CategoryReservationRule) Enabled() bool {
	return r != nil && r.ReservedUnit > 0 && r.Matches != nil
}

// Reserved reports whether the item belongs to the reserved category.
func (r *CategoryReservationRule) Reserved(it grid.Item) bool {
	return r.Enabled() && r.Matches(it)
}

// OnlyRuleID is the id reported when a reserved item leaves its unit.
func (r *CategoryReservationRule) OnlyRuleID() string {
	return fmt.Sprintf("R-%s-ONLY-%d", strings.ToUpper(r.Category), r.ReservedUnit)
}

// ReservedRuleID is the id reported when another item enters the reserved unit.
func (r *CategoryReservationRule) ReservedRuleID() string {
	return fmt.Sprintf("R-SMOKER%d-RESERVED", r.ReservedUnit)
}

// Check implements Constraint.
func (r *CategoryReservationRule) Check(item grid.Item, _ []grid.Item, unit int, _ Phase) Outcome {
	if !r.Enabled() {
		return OK()
	}
	reserved := r.Matches(item)
	switch {
	case reserved && unit != r.ReservedUnit:
		return Block(&Violation{
			RuleID:  r.OnlyRuleID(),
			Title:   fmt.Sprintf("%s belongs on smoker %d", r.Category, r.ReservedUnit),
			Message: fmt.Sprintf("%q may only be placed on smoker %d", item.Name, r.ReservedUnit),
			Details: map[string]any{"unit": unit, "reservedUnit": r.ReservedUnit},
		})
	case !reserved && unit == r.ReservedUnit:
		msg := fmt.Sprintf("smoker %d is reserved for %s; place %q there anyway?", r.ReservedUnit, r.Category, item.Name)
		return Ask(msg, &Violation{
			RuleID:  r.ReservedRuleID(),
			Title:   fmt.Sprintf("Smoker %d is reserved", r.ReservedUnit),
			Message: msg,
			Details: map[string]any{"unit": unit, "category": r.Category},
		})
	}
	return OK()
}

// SingleProductPerSlotRule keeps one product identity per slot.
type SingleProductPerSlotRule struct{}

// Name returns the constraint name.
func (SingleProductPerSlotRule) Name() string { return "single-product" }

// Check implements Constraint.
func (SingleProductPerSlotRule) Check(item grid.Item, occupants []grid.Item, _ int, _ Phase) Outcome {
	if len(occupants) == 0 {
		return OK()
	}
	first := occupants[0].Key()
	for _, o := range occupants[1:] {
		if o.Key() != first {
			return Block(&Violation{
				RuleID:  RuleSingleProductID,
				Title:   "Slot holds several products",
				Message: "slot already contains more than one product",
				Details: map[string]any{"occupants": len(occupants)},
			})
		}
	}
	if item.Key() != first {
		return Block(&Violation{
			RuleID:  RuleSingleProductID,
			Title:   "Slot holds another product",
			Message: fmt.Sprintf("slot already contains %q; cannot add %q", occupants[0].Name, item.Name),
			Details: map[string]any{"occupant": occupants[0].ID(), "item": item.ID()},
		})
	}
	return OK()
}

// CapacityRule bounds the summed raw quantity of a slot.
type CapacityRule struct {
	Table *capacity.Table

	// Exempt reports items that are never bounded.
	Exempt func(grid.Item) bool
}

// Name returns the constraint name.
func (r *CapacityRule) Name() string { return "capacity" }

// Check implements Constraint.
func (r *CapacityRule) Check(item grid.Item, occupants []grid.Item, unit int, _ Phase) Outcome {
	if r.Exempt != nil && r.Exempt(item) {
		return OK()
	}
	limit := r.Table.CapacityFor(unit, item.CategoryKey())
	if capacity.Unlimited(limit) {
		return OK()
	}

	var load float64
	for _, o := range occupants {
		load += o.RawOrQuantity()
	}
	raw := item.RawOrQuantity()
	if load+raw <= limit+Epsilon {
		return OK()
	}

	details := map[string]any{"capacity": limit, "load": load, "raw": raw, "unit": unit}
	toFit := limit - load
	if toFit <= Epsilon {
		return Block(&Violation{
			RuleID:  RuleCapacityID,
			Title:   "Slot is full",
			Message: fmt.Sprintf("slot already holds %.2f of %.2f", load, limit),
			Details: details,
		})
	}
	if item.Quantity <= 0 {
		return Block(&Violation{
			RuleID:  RuleCapacityID,
			Title:   "Capacity exceeded",
			Message: fmt.Sprintf("%q has no quantity to split", item.Name),
			Details: details,
		})
	}

	split := item.Quantity * (toFit / raw)
	details["fits"] = split
	return Split(split, item.Quantity-split, &Violation{
		RuleID:  RuleCapacityID,
		Title:   "Capacity exceeded",
		Message: fmt.Sprintf("only %.2f of %.2f %s fits (capacity %.2f)", split, item.Quantity, item.Unit, limit),
		Details: details,
	})
}
