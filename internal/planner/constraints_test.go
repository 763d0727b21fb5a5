package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/smokeplan/internal/capacity"
	"github.com/danieljhkim/smokeplan/internal/grid"
)

func item(name string, qty float64) grid.Item {
	return grid.Item{RC: name + "-rc", SK: name + "-sk", Name: name, Unit: "kg", Quantity: qty}
}

func TestCategoryReservationRule(t *testing.T) {
	rule := NewCategoryReservationRule(4, "Biltong")
	biltong := item("Hovezi Biltong", 10)
	jerky := item("Jerky", 10)
	jerky.Category = grid.String("BILTONG")
	sausage := item("Klobasa", 10)

	t.Run("reserved item off reserved unit blocks", func(t *testing.T) {
		out := rule.Check(biltong, nil, 1, PhaseMove)
		require.Equal(t, KindBlock, out.Kind)
		assert.Equal(t, "R-BILTONG-ONLY-4", out.Violation.RuleID)
	})

	t.Run("reserved item on reserved unit passes", func(t *testing.T) {
		assert.Equal(t, KindOK, rule.Check(biltong, nil, 4, PhaseMove).Kind)
	})

	t.Run("category match counts as reserved", func(t *testing.T) {
		assert.Equal(t, KindBlock, rule.Check(jerky, nil, 2, PhasePrefill).Kind)
	})

	t.Run("other item on reserved unit asks", func(t *testing.T) {
		out := rule.Check(sausage, nil, 4, PhaseMove)
		require.Equal(t, KindAsk, out.Kind)
		assert.Equal(t, "R-SMOKER4-RESERVED", out.Violation.RuleID)
		assert.Contains(t, out.AskMessage, "Klobasa")
	})

	t.Run("other item elsewhere passes", func(t *testing.T) {
		assert.Equal(t, KindOK, rule.Check(sausage, nil, 2, PhaseMove).Kind)
	})

	t.Run("disabled rule passes everything", func(t *testing.T) {
		off := NewCategoryReservationRule(0, "biltong")
		assert.Equal(t, KindOK, off.Check(biltong, nil, 1, PhaseMove).Kind)
		assert.False(t, off.Reserved(biltong))
	})
}

func TestSingleProductPerSlotRule(t *testing.T) {
	rule := SingleProductPerSlotRule{}
	a := item("Sunka", 100)
	b := item("Slanina", 100)
	beef := item("Sunka", 100)
	beef.Category = grid.String("hovezi")
	pork := item("Sunka", 100)
	pork.Category = grid.String("veprove")
	porkUpper := item("Sunka", 40)
	porkUpper.Category = grid.String(" VEPROVE ")

	tests := []struct {
		name      string
		item      grid.Item
		occupants []grid.Item
		want      Kind
	}{
		{"empty slot", a, nil, KindOK},
		{"same product", a, []grid.Item{a}, KindOK},
		{"different product", b, []grid.Item{a}, KindBlock},
		{"already mixed slot", a, []grid.Item{a, b}, KindBlock},
		{"same product other category", pork, []grid.Item{beef}, KindBlock},
		{"category against uncategorised", pork, []grid.Item{a}, KindBlock},
		{"category compared case-insensitively", porkUpper, []grid.Item{pork}, KindOK},
		{"mixed by category only", pork, []grid.Item{pork, beef}, KindBlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := rule.Check(tt.item, tt.occupants, 1, PhaseMove)
			assert.Equal(t, tt.want, out.Kind)
			if tt.want == KindBlock {
				assert.Equal(t, RuleSingleProductID, out.Violation.RuleID)
			}
		})
	}
}

func TestCapacityRule(t *testing.T) {
	reservation := NewCategoryReservationRule(4, "biltong")
	rule := &CapacityRule{Table: capacity.Default(), Exempt: reservation.Reserved}
	occupant := item("Sunka", 250)

	t.Run("fits", func(t *testing.T) {
		assert.Equal(t, KindOK, rule.Check(item("Sunka", 50), []grid.Item{occupant}, 2, PhaseMove).Kind)
	})

	t.Run("splits the fitting share", func(t *testing.T) {
		out := rule.Check(item("Sunka", 100), []grid.Item{occupant}, 2, PhaseMove)
		require.Equal(t, KindSplit, out.Kind)
		assert.InDelta(t, 50, out.SplitQty, 1e-9)
		assert.InDelta(t, 50, out.RemainderQty, 1e-9)
		assert.Equal(t, RuleCapacityID, out.Violation.RuleID)
	})

	t.Run("split uses raw ratio", func(t *testing.T) {
		it := item("Sunka", 80)
		it.RawQuantity = grid.Float(100)
		out := rule.Check(it, []grid.Item{occupant}, 2, PhaseMove)
		require.Equal(t, KindSplit, out.Kind)
		assert.InDelta(t, 40, out.SplitQty, 1e-9)
		assert.InDelta(t, 40, out.RemainderQty, 1e-9)
	})

	t.Run("full slot blocks", func(t *testing.T) {
		out := rule.Check(item("Sunka", 1), []grid.Item{item("Sunka", 300)}, 2, PhaseMove)
		require.Equal(t, KindBlock, out.Kind)
		assert.Equal(t, RuleCapacityID, out.Violation.RuleID)
	})

	t.Run("zero quantity cannot be split", func(t *testing.T) {
		it := item("Sunka", 0)
		it.RawQuantity = grid.Float(100)
		out := rule.Check(it, []grid.Item{occupant}, 2, PhaseMove)
		assert.Equal(t, KindBlock, out.Kind)
	})

	t.Run("epsilon tolerance", func(t *testing.T) {
		assert.Equal(t, KindOK, rule.Check(item("Sunka", 50+1e-10), []grid.Item{occupant}, 2, PhaseMove).Kind)
	})

	t.Run("reserved category is exempt", func(t *testing.T) {
		assert.Equal(t, KindOK, rule.Check(item("Biltong", 5000), nil, 4, PhaseMove).Kind)
	})

	t.Run("non-positive capacity is unlimited", func(t *testing.T) {
		unlimited := &CapacityRule{Table: capacity.New([]float64{0}, nil)}
		assert.Equal(t, KindOK, unlimited.Check(item("Sunka", 1e6), nil, 3, PhaseMove).Kind)
	})

	t.Run("category override", func(t *testing.T) {
		overridden := &CapacityRule{Table: capacity.New([]float64{400}, map[string][]float64{"hovezi": {100}})}
		beef := item("Roastbeef", 150)
		beef.Category = grid.String("Hovezi")
		out := overridden.Check(beef, nil, 1, PhaseMove)
		require.Equal(t, KindSplit, out.Kind)
		assert.InDelta(t, 100, out.SplitQty, 1e-9)
	})
}

func TestRuleEngine_ConstraintOrder(t *testing.T) {
	e := New(DefaultOptions())
	names := make([]string, 0)
	for _, c := range e.Constraints() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"category-reservation", "single-product", "capacity"}, names)
}

func TestRuleEngine_ValidateSlot(t *testing.T) {
	e := New(DefaultOptions())
	sausage := item("Klobasa", 100)

	t.Run("ask fails during prefill without consulting confirm", func(t *testing.T) {
		asked := false
		res := e.ValidateSlot(sausage, 4, nil, func(string) bool { asked = true; return true }, PhasePrefill)
		assert.False(t, res.OK)
		assert.Equal(t, KindAsk, res.Outcome.Kind)
		assert.False(t, asked)
	})

	t.Run("confirmed ask passes during move", func(t *testing.T) {
		res := e.ValidateSlot(sausage, 4, nil, func(string) bool { return true }, PhaseMove)
		assert.True(t, res.OK)
		assert.Equal(t, []string{"R-SMOKER4-RESERVED"}, res.Acknowledged)
	})

	t.Run("declined ask fails", func(t *testing.T) {
		res := e.ValidateSlot(sausage, 4, nil, func(string) bool { return false }, PhaseMove)
		assert.False(t, res.OK)
		assert.Equal(t, "R-SMOKER4-RESERVED", res.Outcome.Violation.RuleID)
	})

	t.Run("confirmed ask still checks capacity", func(t *testing.T) {
		res := e.ValidateSlot(item("Klobasa", 500), 4, nil, func(string) bool { return true }, PhaseMove)
		assert.False(t, res.OK)
		assert.Equal(t, KindSplit, res.Outcome.Kind)
	})

	t.Run("first failing constraint wins", func(t *testing.T) {
		biltong := item("Biltong", 100)
		res := e.ValidateSlot(biltong, 1, []grid.Item{sausage}, nil, PhaseMove)
		assert.Equal(t, "R-BILTONG-ONLY-4", res.Outcome.Violation.RuleID)
	})
}

type fixedConstraint struct{ out Outcome }

func (fixedConstraint) Name() string { return "fixed" }

func (f fixedConstraint) Check(grid.Item, []grid.Item, int, Phase) Outcome { return f.out }

func TestRuleEngine_ExtraConstraint(t *testing.T) {
	e := New(DefaultOptions(), fixedConstraint{out: Block(nil)})
	res := e.ValidateSlot(item("Sunka", 1), 1, nil, nil, PhaseMove)
	require.False(t, res.OK)
	assert.Equal(t, RuleUnknownID, violationOf(res.Outcome).RuleID)
}
