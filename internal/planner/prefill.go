package planner

import (
	"math"
	"sort"

	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

// minGroupQty is the smallest aggregated quantity worth placing.
const minGroupQty = 1e-12

// Unplaced reports the part of a product group that found no slot.
type Unplaced struct {
	RC        string  `json:"rc,omitempty"`
	SK        string  `json:"sk,omitempty"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit,omitempty"`
	Category  string  `json:"category,omitempty"`
	Requested float64 `json:"requested"`
	Placed    float64 `json:"placed"`
	Remaining float64 `json:"remaining"`
}

// PrefillReport summarizes a prefill run.
type PrefillReport struct {
	Groups     int        `json:"groups"`
	Placements int        `json:"placements"`
	PlacedQty  float64    `json:"placedQty"`
	Unplaced   []Unplaced `json:"unplaced,omitempty"`
}

// group is an aggregated product demand.
type group struct {
	template  grid.Item
	qty       float64
	raw       float64
	tracksRaw bool
}

// rawPerQty is the ratio between raw and finished quantity for the group.
func (g *group) rawPerQty() float64 {
	if !g.tracksRaw || g.qty <= 0 {
		return 1
	}
	return g.raw / g.qty
}

// loads tracks the quantity placed so far.
type loads struct {
	day     []float64
	dayUnit [][]float64
	unit    []float64
}

func newLoads(d grid.Dimensions) *loads {
	l := &loads{
		day:     make([]float64, d.Days),
		dayUnit: make([][]float64, d.Days),
		unit:    make([]float64, d.Units+1),
	}
	for i := range l.dayUnit {
		l.dayUnit[i] = make([]float64, d.Units+1)
	}
	return l
}

func (l *loads) add(k grid.SlotKey, qty float64) {
	l.day[k.Day] += qty
	l.dayUnit[k.Day][k.Unit] += qty
	l.unit[k.Unit] += qty
}

// Prefill builds a new grid from a list of items.
//
// Items are aggregated by product identity and placed largest group first.
// Each portion goes to the least-loaded day, then to the least-loaded
// allowed unit of that day, then to the first empty position. A portion is
// capped by the slot capacity, so large groups are split into parts. Any
// quantity that finds no slot is listed in the report.
func (e *RuleEngine) Prefill(items []grid.Item, d grid.Dimensions) (grid.Grid, PrefillReport) {
	g := grid.New(d)
	l := newLoads(d)
	groups := aggregate(items)

	report := PrefillReport{Groups: len(groups)}
	for _, grp := range groups {
		placed, n := e.placeGroup(g, d, l, grp)
		report.Placements += n
		report.PlacedQty += placed
		if remaining := grp.qty - placed; remaining > Epsilon {
			report.Unplaced = append(report.Unplaced, Unplaced{
				RC:        grp.template.RC,
				SK:        grp.template.SK,
				Name:      grp.template.Name,
				Unit:      grp.template.Unit,
				Category:  grp.template.CategoryKey(),
				Requested: grp.qty,
				Placed:    placed,
				Remaining: remaining,
			})
		}
	}
	return g, report
}

// aggregate groups items by product identity, largest total first.
func aggregate(items []grid.Item) []*group {
	var order []*group
	byKey := make(map[grid.ProductKey]*group)
	for _, it := range items {
		k := it.Key()
		grp, ok := byKey[k]
		if !ok {
			grp = &group{template: it.WithoutPart()}
			byKey[k] = grp
			order = append(order, grp)
		}
		grp.qty += it.Quantity
		grp.raw += it.RawOrQuantity()
		if it.HasRaw() {
			grp.tracksRaw = true
		}
	}

	out := order[:0]
	for _, grp := range order {
		if grp.qty > minGroupQty {
			out = append(out, grp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].qty > out[j].qty
	})
	return out
}

// placeGroup places portions of grp until it is exhausted or no slot accepts
// it. It returns the placed quantity and the number of placements.
func (e *RuleEngine) placeGroup(g grid.Grid, d grid.Dimensions, l *loads, grp *group) (float64, int) {
	remaining := grp.qty
	ratio := grp.rawPerQty()
	var placed []grid.SlotKey

	for remaining > Epsilon {
		k, take, ok := e.nextSlot(g, d, l, grp, remaining, ratio)
		if !ok {
			break
		}
		var raw *float64
		if grp.tracksRaw {
			raw = grid.Float(take * ratio)
		}
		portion := grp.template.WithQuantity(take, raw).WithPart(len(placed) + 1)
		g[k] = append(append([]grid.Item{}, g[k]...), portion)
		g.MergeSlot(k)
		l.add(k, take)
		remaining -= take
		placed = append(placed, k)
	}

	if len(placed) == 1 {
		k := placed[0]
		slot := make([]grid.Item, len(g[k]))
		for i, it := range g[k] {
			if it.Key() == grp.template.Key() {
				it = it.WithoutPart()
			}
			slot[i] = it
		}
		g[k] = slot
	}
	return grp.qty - math.Max(remaining, 0), len(placed)
}

// nextSlot finds the slot for the next portion and the quantity it takes.
func (e *RuleEngine) nextSlot(g grid.Grid, d grid.Dimensions, l *loads, grp *group, remaining, ratio float64) (grid.SlotKey, float64, bool) {
	category := grp.template.CategoryKey()
	for _, day := range dayOrder(l.day) {
		for _, unit := range e.unitOrder(day, d, l, grp) {
			take := remaining
			limit := e.opts.Capacity.CapacityFor(unit, category)
			if !capacity.Unlimited(limit) && ratio > 0 {
				take = math.Min(remaining, limit/ratio)
			}
			if take <= Epsilon {
				continue
			}

			var raw *float64
			if grp.tracksRaw {
				raw = grid.Float(take * ratio)
			}
			candidate := grp.template.WithQuantity(take, raw)

			for pos := 1; pos <= d.Positions; pos++ {
				k := grid.SlotKey{Day: day, Unit: unit, Position: pos}
				if g.Occupied(k) {
					continue
				}
				if e.ValidateSlot(candidate, unit, g[k], nil, PhasePrefill).OK {
					return k, take, true
				}
			}
		}
	}
	return grid.SlotKey{}, 0, false
}

// dayOrder returns day indexes by ascending load, ties by index.
func dayOrder(dayLoad []float64) []int {
	days := make([]int, len(dayLoad))
	for i := range days {
		days[i] = i
	}
	sort.SliceStable(days, func(i, j int) bool {
		return dayLoad[days[i]] < dayLoad[days[j]]
	})
	return days
}

// allowedUnits lists the units a group may occupy.
func (e *RuleEngine) allowedUnits(d grid.Dimensions, grp *group) []int {
	reserved := e.ReservedUnit()
	if reserved > 0 && e.IsReserved(grp.template) {
		if reserved > d.Units {
			return nil
		}
		return []int{reserved}
	}
	units := make([]int, 0, d.Units)
	for u := 1; u <= d.Units; u++ {
		if u != reserved {
			units = append(units, u)
		}
	}
	return units
}

// unitOrder orders the allowed units for a day: lowest load on that day
// first, then (optionally) larger slot capacity, then lowest load across
// the week, then unit index.
func (e *RuleEngine) unitOrder(day int, d grid.Dimensions, l *loads, grp *group) []int {
	units := e.allowedUnits(d, grp)
	category := grp.template.CategoryKey()
	effective := func(u int) float64 {
		c := e.opts.Capacity.CapacityFor(u, category)
		if capacity.Unlimited(c) {
			return math.Inf(1)
		}
		return c
	}
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if la, lb := l.dayUnit[day][a], l.dayUnit[day][b]; la != lb {
			return la < lb
		}
		if e.opts.PreferLargerUnits {
			if ca, cb := effective(a), effective(b); ca != cb {
				return ca > cb
			}
		}
		if wa, wb := l.unit[a], l.unit[b]; wa != wb {
			return wa < wb
		}
		return a < b
	})
	return units
}
