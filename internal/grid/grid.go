// Package grid defines the weekly slot grid and the items placed in it.
//
// A grid has Days x Units x Positions slots. Days are 0-based offsets from
// the week start; units (smokers) and positions (rows) are 1-based. Every
// slot holds an ordered list of occupants which, after a merge, contains at
// most one item per product identity.
package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Default grid dimensions: six working days, four smokers, seven rows.
const (
	DefaultDays      = 6
	DefaultUnits     = 4
	DefaultPositions = 7
)

// SlotKey addresses one slot.
type SlotKey struct {
	Day      int `json:"day"`
	Unit     int `json:"unit"`
	Position int `json:"position"`
}

// String formats the key as day:unit:position.
func (k SlotKey) String() string {
	return fmt.Sprintf("%d:%d:%d", k.Day, k.Unit, k.Position)
}

// ParseSlotKey parses a key in day:unit:position form.
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return SlotKey{}, fmt.Errorf("invalid slot %q: expected day:unit:position", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return SlotKey{}, fmt.Errorf("invalid slot %q: %w", s, err)
		}
		vals[i] = n
	}
	return SlotKey{Day: vals[0], Unit: vals[1], Position: vals[2]}, nil
}

// Dimensions describes the shape of a grid.
type Dimensions struct {
	Days      int `json:"days" yaml:"days"`
	Units     int `json:"units" yaml:"units"`
	Positions int `json:"positions" yaml:"positions"`
}

// DefaultDimensions returns the 6 x 4 x 7 layout.
func DefaultDimensions() Dimensions {
	return Dimensions{Days: DefaultDays, Units: DefaultUnits, Positions: DefaultPositions}
}

// Validate checks that every dimension is positive.
func (d Dimensions) Validate() error {
	if d.Days <= 0 || d.Units <= 0 || d.Positions <= 0 {
		return fmt.Errorf("invalid grid dimensions %dx%dx%d: all must be positive", d.Days, d.Units, d.Positions)
	}
	return nil
}

// Contains reports whether the key lies inside the grid.
func (d Dimensions) Contains(k SlotKey) bool {
	return k.Day >= 0 && k.Day < d.Days &&
		k.Unit >= 1 && k.Unit <= d.Units &&
		k.Position >= 1 && k.Position <= d.Positions
}

// Keys returns every slot key in row-major (day, unit, position) order.
func (d Dimensions) Keys() []SlotKey {
	keys := make([]SlotKey, 0, d.Days*d.Units*d.Positions)
	for day := 0; day < d.Days; day++ {
		for unit := 1; unit <= d.Units; unit++ {
			for pos := 1; pos <= d.Positions; pos++ {
				keys = append(keys, SlotKey{Day: day, Unit: unit, Position: pos})
			}
		}
	}
	return keys
}

// Grid maps every slot of a week to its occupants.
type Grid map[SlotKey][]Item

// New creates an empty grid with every slot present.
func New(d Dimensions) Grid {
	g := make(Grid, d.Days*d.Units*d.Positions)
	for _, k := range d.Keys() {
		g[k] = []Item{}
	}
	return g
}

// Has reports whether the key is part of the grid.
func (g Grid) Has(k SlotKey) bool {
	_, ok := g[k]
	return ok
}

// Occupied reports whether the slot holds at least one item.
func (g Grid) Occupied(k SlotKey) bool {
	return len(g[k]) > 0
}

// Load returns the summed finished quantity in a slot.
func (g Grid) Load(k SlotKey) float64 {
	var total float64
	for _, it := range g[k] {
		total += it.Quantity
	}
	return total
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for k, items := range g {
		cp := make([]Item, len(items))
		for i, it := range items {
			cp[i] = it.clone()
		}
		out[k] = cp
	}
	return out
}

// Items returns every occupant in row-major slot order.
func (g Grid) Items(d Dimensions) []Item {
	var out []Item
	for _, k := range d.Keys() {
		out = append(out, g[k]...)
	}
	return out
}
