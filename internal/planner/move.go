package planner

import (
	"github.com/danieljhkim/smokeplan/internal/grid"
)

// MoveOptions controls TryMove.
type MoveOptions struct {
	// Confirm answers ASK outcomes. A nil Confirm rejects them.
	Confirm ConfirmFunc

	// AllowSplit keeps the fitting part of an item that exceeds the
	// destination capacity and drops the remainder.
	AllowSplit bool
}

// TryMove moves the occupants of src to dst and the occupants of dst to src.
//
// Both directions are validated before anything changes: on failure the grid
// is left untouched and the violation is returned. An empty dst makes this a
// plain move.
func (e *RuleEngine) TryMove(g grid.Grid, src, dst grid.SlotKey, opts MoveOptions) (bool, *Violation) {
	if src == dst {
		return false, engineViolation("source and destination are the same slot", map[string]any{"slot": src.String()})
	}
	if !g.Has(src) || !g.Has(dst) {
		return false, engineViolation("slot outside grid", map[string]any{"src": src.String(), "dst": dst.String()})
	}

	toDst, v := e.relocate(g[src], dst.Unit, opts)
	if v != nil {
		return false, v
	}
	toSrc, v := e.relocate(g[dst], src.Unit, opts)
	if v != nil {
		return false, v
	}

	g[dst], g[src] = toDst, toSrc
	g.MergeSlot(dst)
	g.MergeSlot(src)
	return true, nil
}

// relocate validates items one by one for unit against the items accepted
// so far and returns the accepted list.
func (e *RuleEngine) relocate(items []grid.Item, unit int, opts MoveOptions) ([]grid.Item, *Violation) {
	accepted := make([]grid.Item, 0, len(items))
	for _, it := range items {
		res := e.ValidateSlot(it, unit, accepted, opts.Confirm, PhaseMove)
		if res.OK {
			accepted = append(accepted, it)
			continue
		}
		if res.Outcome.Kind == KindSplit && opts.AllowSplit {
			accepted = append(accepted, fittingPart(it, res.Outcome.SplitQty))
			continue
		}
		return nil, violationOf(res.Outcome)
	}
	return accepted, nil
}

// fittingPart returns the portion of it that holds qty, scaling raw quantity.
func fittingPart(it grid.Item, qty float64) grid.Item {
	var raw *float64
	if it.RawQuantity != nil && it.Quantity > 0 {
		raw = grid.Float(*it.RawQuantity * qty / it.Quantity)
	}
	return it.WithQuantity(qty, raw)
}
