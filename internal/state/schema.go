package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/planner"
)

// PlanState is the persisted form of one week's grid.
type PlanState struct {
	// Week is the Monday the plan starts on (YYYY-MM-DD)
	Week string `json:"week"`

	// Dimensions is the grid shape the plan was built with
	Dimensions grid.Dimensions `json:"dimensions"`

	// Slots lists occupied slots in row-major order
	Slots []SlotState `json:"slots"`

	// Unplaced is the demand the last prefill could not place
	Unplaced []planner.Unplaced `json:"unplaced,omitempty"`

	// Revision changes on every save
	Revision string `json:"revision"`

	// Digest is the content hash of Slots, set by the engine
	Digest string `json:"digest,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotState holds the occupants of one slot.
type SlotState struct {
	Day      int         `json:"day"`
	Unit     int         `json:"unit"`
	Position int         `json:"position"`
	Items    []grid.Item `json:"items"`
}

// Key returns the slot key.
func (s SlotState) Key() grid.SlotKey {
	return grid.SlotKey{Day: s.Day, Unit: s.Unit, Position: s.Position}
}

// PlanSummary describes a stored plan without its slots.
type PlanSummary struct {
	Week      string    `json:"week"`
	Revision  string    `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPlanState creates a plan for week from a grid.
func NewPlanState(week string, d grid.Dimensions, g grid.Grid, now time.Time) *PlanState {
	p := &PlanState{
		Week:       week,
		Dimensions: d,
		Revision:   uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	p.SetGrid(g)
	return p
}

// SetGrid replaces the stored slots with the occupied slots of g.
func (p *PlanState) SetGrid(g grid.Grid) {
	p.Slots = []SlotState{}
	for _, k := range p.Dimensions.Keys() {
		items := g[k]
		if len(items) == 0 {
			continue
		}
		p.Slots = append(p.Slots, SlotState{
			Day:      k.Day,
			Unit:     k.Unit,
			Position: k.Position,
			Items:    append([]grid.Item(nil), items...),
		})
	}
}

// Grid rebuilds the full grid, rejecting slots outside the plan dimensions.
func (p *PlanState) Grid() (grid.Grid, error) {
	if err := p.Dimensions.Validate(); err != nil {
		return nil, err
	}
	g := grid.New(p.Dimensions)
	for _, s := range p.Slots {
		k := s.Key()
		if !p.Dimensions.Contains(k) {
			return nil, fmt.Errorf("plan %s slot %s: %w", p.Week, k, grid.ErrOutOfGrid)
		}
		g[k] = append(g[k], s.Items...)
	}
	return g, nil
}

// Touch records a modification.
func (p *PlanState) Touch(now time.Time) {
	p.Revision = uuid.NewString()
	p.UpdatedAt = now
}

// Summary returns the plan's summary.
func (p *PlanState) Summary() PlanSummary {
	return PlanSummary{Week: p.Week, Revision: p.Revision, UpdatedAt: p.UpdatedAt}
}

// WeekStart returns the plan's Monday.
func (p *PlanState) WeekStart() (time.Time, error) {
	return ParseWeek(p.Week)
}
