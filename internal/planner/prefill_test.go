package planner

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

type placement struct {
	key  grid.SlotKey
	item grid.Item
}

// placementsOf returns every occupant named name, ordered by part index.
func placementsOf(g grid.Grid, d grid.Dimensions, name string) []placement {
	var out []placement
	for _, k := range d.Keys() {
		for _, it := range g[k] {
			if it.Name == name {
				out = append(out, placement{key: k, item: it})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := 0, 0
		if out[i].item.PartIndex != nil {
			pi = *out[i].item.PartIndex
		}
		if out[j].item.PartIndex != nil {
			pj = *out[j].item.PartIndex
		}
		return pi < pj
	})
	return out
}

func quantities(ps []placement) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.item.Quantity
	}
	return out
}

func TestPrefill_SplitsAcrossLeastLoadedSlots(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()

	g, report := e.Prefill([]grid.Item{item("Krkovice", 950)}, d)

	parts := placementsOf(g, d, "Krkovice")
	require.Len(t, parts, 3)
	assert.Equal(t, []float64{400, 300, 250}, quantities(parts))
	assert.Equal(t, grid.SlotKey{Day: 0, Unit: 1, Position: 1}, parts[0].key)
	assert.Equal(t, grid.SlotKey{Day: 1, Unit: 2, Position: 1}, parts[1].key)
	assert.Equal(t, grid.SlotKey{Day: 2, Unit: 3, Position: 1}, parts[2].key)
	for i, p := range parts {
		require.NotNil(t, p.item.PartIndex)
		assert.Equal(t, i+1, *p.item.PartIndex)
	}
	assert.Equal(t, 3, report.Placements)
	assert.InDelta(t, 950, report.PlacedQty, 1e-9)
	assert.Empty(t, report.Unplaced)
}

func TestPrefill_CategoryOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity = capacity.New([]float64{400, 300, 400, 400}, map[string][]float64{
		"hovezi": {300, 250, 300, 300},
	})
	e := New(opts)
	d := grid.DefaultDimensions()

	beef := item("Hovezi pecene", 620)
	beef.Category = grid.String("Hovezi")
	g, _ := e.Prefill([]grid.Item{beef}, d)

	assert.Equal(t, []float64{300, 250, 70}, quantities(placementsOf(g, d, "Hovezi pecene")))
}

func TestPrefill_SinglePlacementHasNoPartIndex(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()

	g, report := e.Prefill([]grid.Item{item("Sunka", 120)}, d)

	parts := placementsOf(g, d, "Sunka")
	require.Len(t, parts, 1)
	assert.Nil(t, parts[0].item.PartIndex)
	assert.Equal(t, "Sunka-sk|Sunka-rc|Sunka|kg", parts[0].item.ID())
	assert.Equal(t, 1, report.Placements)
}

func TestPrefill_ReservedCategoryStaysOnReservedUnit(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()

	g, _ := e.Prefill([]grid.Item{item("Biltong classic", 1000), item("Klobasa", 2000)}, d)

	biltong := placementsOf(g, d, "Biltong classic")
	assert.Equal(t, []float64{400, 400, 200}, quantities(biltong))
	for _, p := range biltong {
		assert.Equal(t, 4, p.key.Unit)
	}
	for _, p := range placementsOf(g, d, "Klobasa") {
		assert.NotEqual(t, 4, p.key.Unit, "non-reserved item placed on reserved unit")
	}
}

func TestPrefill_AggregatesByIdentity(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity = capacity.New([]float64{400, 300, 400, 400}, map[string][]float64{
		"hovezi": {100, 100, 100, 100},
	})
	e := New(opts)
	d := grid.DefaultDimensions()

	pork1 := item("Sunka", 100)
	pork1.SourceID = "order-1"
	pork1.Category = grid.String("veprove")
	pork2 := item("Sunka", 150)
	pork2.SourceID = "order-2"
	pork2.Category = grid.String("Veprove")
	beef := item("Sunka", 150)
	beef.Category = grid.String("hovezi")

	g, report := e.Prefill([]grid.Item{pork1, beef, pork2}, d)
	assert.Equal(t, 2, report.Groups)

	var porkSlots []grid.Item
	var beefQty []float64
	for _, k := range d.Keys() {
		slot := g[k]
		require.LessOrEqual(t, len(slot), 1, "slot %v mixes products", k)
		if len(slot) == 0 {
			continue
		}
		switch slot[0].CategoryKey() {
		case "veprove":
			porkSlots = append(porkSlots, slot[0])
		case "hovezi":
			beefQty = append(beefQty, slot[0].Quantity)
		}
	}

	require.Len(t, porkSlots, 1)
	assert.Equal(t, 250.0, porkSlots[0].Quantity)
	assert.Equal(t, "order-1", porkSlots[0].SourceID)
	assert.Equal(t, []float64{100, 50}, beefQty, "beef sized by its own category capacity")
}

func TestPrefill_LargestGroupFirst(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()

	g, _ := e.Prefill([]grid.Item{item("Small", 100), item("Large", 300)}, d)

	large := placementsOf(g, d, "Large")
	small := placementsOf(g, d, "Small")
	require.Len(t, large, 1)
	require.Len(t, small, 1)
	assert.Equal(t, grid.SlotKey{Day: 0, Unit: 1, Position: 1}, large[0].key)
	assert.Equal(t, grid.SlotKey{Day: 1, Unit: 2, Position: 1}, small[0].key)
}

func TestPrefill_ReportsUnplacedRemainder(t *testing.T) {
	opts := DefaultOptions()
	opts.Capacity = capacity.New([]float64{400, 300}, nil)
	e := New(opts)
	d := grid.Dimensions{Days: 1, Units: 2, Positions: 1}

	g, report := e.Prefill([]grid.Item{item("Sunka", 1000)}, d)

	assert.Equal(t, []float64{400, 300}, quantities(placementsOf(g, d, "Sunka")))
	require.Len(t, report.Unplaced, 1)
	assert.Equal(t, "Sunka", report.Unplaced[0].Name)
	assert.InDelta(t, 700, report.Unplaced[0].Placed, 1e-9)
	assert.InDelta(t, 300, report.Unplaced[0].Remaining, 1e-9)
}

func TestPrefill_RawQuantityDrivesPortions(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()

	it := item("Krkovice", 800)
	it.RawQuantity = grid.Float(1000)
	g, report := e.Prefill([]grid.Item{it}, d)

	parts := placementsOf(g, d, "Krkovice")
	require.Len(t, parts, 3)
	assert.InDeltaSlice(t, []float64{320, 240, 240}, quantities(parts), 1e-9)
	require.NotNil(t, parts[0].item.RawQuantity)
	assert.InDelta(t, 400, *parts[0].item.RawQuantity, 1e-9)
	assert.Empty(t, report.Unplaced)
}

func TestPrefill_Invariants(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()
	items := []grid.Item{
		item("Sunka", 1730), item("Slanina", 890), item("Klobasa", 2400),
		item("Biltong", 600), item("Krkovice", 45), item("Zebra", 1210),
	}

	g, report := e.Prefill(items, d)
	require.Empty(t, report.Unplaced, "capacity suffices for every item")

	placed := map[string]float64{}
	for _, k := range d.Keys() {
		slot := g[k]
		require.LessOrEqual(t, len(slot), 1, "slot %v holds several products", k)
		if len(slot) == 0 {
			continue
		}
		it := slot[0]
		placed[it.Name] += it.Quantity

		if e.IsReserved(it) {
			assert.Equal(t, e.ReservedUnit(), k.Unit, "reserved item %s off the reserved unit at %v", it.Name, k)
			continue
		}
		assert.NotEqual(t, e.ReservedUnit(), k.Unit, "item %s on the reserved unit at %v", it.Name, k)
		limit := e.Capacity().CapacityFor(k.Unit, it.CategoryKey())
		assert.LessOrEqual(t, it.RawOrQuantity(), limit+Epsilon, "slot %v over capacity", k)
	}

	for _, it := range items {
		assert.InDelta(t, it.Quantity, placed[it.Name], 1e-9, "%s not conserved", it.Name)
	}
	assert.InDelta(t, 1730+890+2400+600+45+1210, report.PlacedQty, 1e-9)
}

func TestPrefill_Deterministic(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()
	items := []grid.Item{item("A", 500), item("B", 500), item("C", 120), item("Biltong", 90)}

	first, _ := e.Prefill(items, d)
	second, _ := e.Prefill(items, d)

	assert.Equal(t, first, second)
}

func TestPrefill_EmptyInput(t *testing.T) {
	e := New(DefaultOptions())
	d := grid.DefaultDimensions()

	g, report := e.Prefill([]grid.Item{item("Nothing", 0)}, d)

	assert.Len(t, g, 6*4*7)
	assert.Empty(t, g.Items(d))
	assert.Equal(t, 0, report.Groups)
}

func TestPrefill_PreferLargerUnits(t *testing.T) {
	opts := DefaultOptions()
	opts.PreferLargerUnits = true
	e := New(opts)
	d := grid.DefaultDimensions()

	g, _ := e.Prefill([]grid.Item{item("Krkovice", 950)}, d)

	parts := placementsOf(g, d, "Krkovice")
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotEqual(t, 2, p.key.Unit, "smaller unit chosen over a larger idle one")
	}
}
