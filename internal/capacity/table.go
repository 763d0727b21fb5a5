// Package capacity answers how much a single slot on a given unit may hold.
//
// A Table carries a base capacity array indexed by unit (1-based) and optional
// per-category override arrays. Lookups never fail: units past the end of an
// array reuse its last element, and an empty table reports 0. A capacity of
// zero or less means the slot is unlimited.
package capacity

import "strings"

// DefaultBase is the per-unit capacity used when no configuration is given.
var DefaultBase = []float64{400, 300, 400, 400}

// Table holds base and per-category slot capacities.
type Table struct {
	// Base is indexed by unit-1.
	Base []float64 `json:"base" yaml:"base"`

	// Overrides maps a lower-cased category to its own per-unit array.
	Overrides map[string][]float64 `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// New creates a Table, normalizing override keys to lower case.
// The input slices are copied.
func New(base []float64, overrides map[string][]float64) *Table {
	t := &Table{
		Base:      append([]float64(nil), base...),
		Overrides: make(map[string][]float64, len(overrides)),
	}
	for cat, caps := range overrides {
		key := NormalizeCategory(cat)
		if key == "" {
			continue
		}
		t.Overrides[key] = append([]float64(nil), caps...)
	}
	return t
}

// Default returns a Table using DefaultBase and no overrides.
func Default() *Table {
	return New(DefaultBase, nil)
}

// NormalizeCategory lower-cases and trims a category name.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// CapacityFor returns the capacity of a single slot on the given unit for an
// item of the given category. Category matching is case-insensitive.
func (t *Table) CapacityFor(unit int, category string) float64 {
	if t == nil {
		return 0
	}
	if key := NormalizeCategory(category); key != "" {
		if caps, ok := t.Overrides[key]; ok && len(caps) > 0 {
			return pick(caps, unit)
		}
	}
	if len(t.Base) == 0 {
		return 0
	}
	return pick(t.Base, unit)
}

// Unlimited reports whether a capacity value places no bound on a slot.
func Unlimited(c float64) bool {
	return c <= 0
}

// Units returns the number of units covered by the base array.
func (t *Table) Units() int {
	if t == nil {
		return 0
	}
	return len(t.Base)
}

func pick(caps []float64, unit int) float64 {
	idx := unit - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(caps) {
		idx = len(caps) - 1
	}
	return caps[idx]
}
