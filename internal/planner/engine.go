package planner

import (
	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

// Defaults for the reservation rule.
const (
	DefaultReservedUnit     = 4
	DefaultReservedCategory = "biltong"
)

// ConfirmFunc answers a confirmation question raised by an ASK outcome.
type ConfirmFunc func(question string) bool

// Options configures a RuleEngine.
type Options struct {
	Capacity *capacity.Table

	// ReservedUnit is the unit dedicated to ReservedCategory; 0 disables it.
	ReservedUnit     int
	ReservedCategory string

	// PreferLargerUnits makes prefill prefer the unit with the larger slot
	// capacity when two units carry the same load on a day.
	PreferLargerUnits bool
}

// DefaultOptions returns the stock capacities with smoker 4 reserved for biltong.
func DefaultOptions() Options {
	return Options{
		Capacity:         capacity.Default(),
		ReservedUnit:     DefaultReservedUnit,
		ReservedCategory: DefaultReservedCategory,
	}
}

// RuleEngine evaluates placements against an ordered constraint pipeline.
// It keeps no state between calls; grids are owned by the caller.
type RuleEngine struct {
	opts        Options
	reservation *CategoryReservationRule
	constraints []Constraint
}

// New creates a RuleEngine with the built-in constraints registered in order
// (reservation, single product, capacity), followed by any extra constraints.
func New(opts Options, extra ...Constraint) *RuleEngine {
	if opts.Capacity == nil {
		opts.Capacity = capacity.Default()
	}
	reservation := NewCategoryReservationRule(opts.ReservedUnit, opts.ReservedCategory)
	e := &RuleEngine{opts: opts, reservation: reservation}
	e.Register(reservation)
	e.Register(SingleProductPerSlotRule{})
	e.Register(&CapacityRule{Table: opts.Capacity, Exempt: reservation.Reserved})
	for _, c := range extra {
		e.Register(c)
	}
	return e
}

// Register appends a constraint to the pipeline.
func (e *RuleEngine) Register(c Constraint) {
	e.constraints = append(e.constraints, c)
}

// Constraints returns the registered constraints in evaluation order.
func (e *RuleEngine) Constraints() []Constraint {
	out := make([]Constraint, len(e.constraints))
	copy(out, e.constraints)
	return out
}

// Capacity returns the capacity table in use.
func (e *RuleEngine) Capacity() *capacity.Table {
	return e.opts.Capacity
}

// IsReserved reports whether the item belongs to the reserved category.
func (e *RuleEngine) IsReserved(it grid.Item) bool {
	return e.reservation.Reserved(it)
}

// ReservedUnit returns the reserved unit, 0 when reservation is disabled.
func (e *RuleEngine) ReservedUnit() int {
	if !e.reservation.Enabled() {
		return 0
	}
	return e.opts.ReservedUnit
}

// Validation is the result of ValidateSlot.
type Validation struct {
	OK bool

	// Outcome is the failing outcome when OK is false.
	Outcome Outcome

	// Acknowledged lists rule ids whose questions were confirmed.
	Acknowledged []string
}

// ValidateSlot runs the pipeline for placing item next to occupants on unit.
//
// Evaluation stops at the first SPLIT or BLOCK. An ASK stops it too unless
// the phase is PhaseMove and confirm returns true, in which case the
// remaining constraints are still evaluated.
func (e *RuleEngine) ValidateSlot(item grid.Item, unit int, occupants []grid.Item, confirm ConfirmFunc, phase Phase) Validation {
	var acked []string
	for _, c := range e.constraints {
		out := c.Check(item, occupants, unit, phase)
		switch out.Kind {
		case KindOK:
			continue
		case KindAsk:
			if phase != PhasePrefill && confirm != nil && confirm(out.AskMessage) {
				acked = append(acked, violationOf(out).RuleID)
				continue
			}
			return Validation{Outcome: out, Acknowledged: acked}
		default:
			return Validation{Outcome: out, Acknowledged: acked}
		}
	}
	return Validation{OK: true, Outcome: OK(), Acknowledged: acked}
}
