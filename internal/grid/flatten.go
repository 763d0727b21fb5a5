package grid

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfGrid is returned when a slot key lies outside the grid.
	ErrOutOfGrid = errors.New("slot outside grid")

	// ErrEmptySlot is returned when an edit targets a slot without occupants.
	ErrEmptySlot = errors.New("slot is empty")

	// ErrUnitChange is returned when a dose edit would change the unit of
	// measure of one occupant in a slot shared with others.
	ErrUnitChange = errors.New("unit change on a shared slot")
)

// Record is one flattened slot. Empty slots carry only their coordinates.
type Record struct {
	Date          string   `json:"date"`
	Weekday       string   `json:"weekday"`
	Day           int      `json:"day"`
	Unit          int      `json:"unit"`
	Position      int      `json:"position"`
	ItemID        string   `json:"itemId,omitempty"`
	BaseID        string   `json:"baseId,omitempty"`
	RC            string   `json:"rc,omitempty"`
	SK            string   `json:"sk,omitempty"`
	Name          string   `json:"name,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	UnitOfMeasure string   `json:"unitOfMeasure,omitempty"`
	Note          string   `json:"note,omitempty"`
	Category      string   `json:"category,omitempty"`
	PartIndex     *int     `json:"partIndex,omitempty"`
	RawQuantity   *float64 `json:"rawQuantity,omitempty"`
}

// DateLayout is the calendar date format used in records and plan ids.
const DateLayout = "2006-01-02"

// Empty reports whether the record describes an unoccupied slot.
func (r Record) Empty() bool {
	return r.ItemID == ""
}

// Flatten emits one record per slot in row-major (day, unit, position) order.
// Slots holding several occupants report the first one.
func Flatten(g Grid, d Dimensions, weekStart time.Time) []Record {
	records := make([]Record, 0, d.Days*d.Units*d.Positions)
	for _, k := range d.Keys() {
		date := weekStart.AddDate(0, 0, k.Day)
		rec := Record{
			Date:     date.Format(DateLayout),
			Weekday:  date.Weekday().String(),
			Day:      k.Day,
			Unit:     k.Unit,
			Position: k.Position,
		}
		if items := g[k]; len(items) > 0 {
			fillRecord(&rec, items[0])
		}
		records = append(records, rec)
	}
	return records
}

func fillRecord(rec *Record, it Item) {
	rec.ItemID = it.ID()
	rec.BaseID = it.BaseID()
	rec.RC = it.RC
	rec.SK = it.SK
	rec.Name = it.Name
	rec.Quantity = Float(it.Quantity)
	rec.UnitOfMeasure = it.Unit
	rec.Note = it.Note
	if it.Category != nil {
		rec.Category = *it.Category
	}
	if it.PartIndex != nil {
		rec.PartIndex = Int(*it.PartIndex)
	}
	if it.RawQuantity != nil {
		rec.RawQuantity = Float(*it.RawQuantity)
	}
}

// ExportName returns the base file name for a plan export, e.g. plan_uzeni_2025_09_08.
func ExportName(weekStart time.Time) string {
	return "plan_uzeni_" + weekStart.Format("2006_01_02")
}

// SetNote replaces the note on every occupant of a slot.
func (g Grid) SetNote(k SlotKey, note string) error {
	items, ok := g[k]
	if !ok {
		return fmt.Errorf("%s: %w", k, ErrOutOfGrid)
	}
	if len(items) == 0 {
		return fmt.Errorf("%s: %w", k, ErrEmptySlot)
	}
	out := make([]Item, len(items))
	for i, it := range items {
		cp := it.clone()
		cp.Note = note
		out[i] = cp
	}
	g[k] = out
	return nil
}

// SetDose sets the finished quantity of the first occupant of a slot and,
// when unit is not empty, its unit of measure. A tracked raw quantity is
// scaled with the dose. The unit is part of the product identity, so it can
// only change on a slot with a single occupant.
func (g Grid) SetDose(k SlotKey, qty float64, unit string) error {
	items, ok := g[k]
	if !ok {
		return fmt.Errorf("%s: %w", k, ErrOutOfGrid)
	}
	if len(items) == 0 {
		return fmt.Errorf("%s: %w", k, ErrEmptySlot)
	}
	if qty < 0 {
		return fmt.Errorf("dose must not be negative, got %v", qty)
	}
	first := items[0]
	if unit != "" && unit != first.Unit && len(items) > 1 {
		return fmt.Errorf("%s: %w (%s -> %s)", k, ErrUnitChange, first.Unit, unit)
	}
	var raw *float64
	if first.RawQuantity != nil {
		if first.Quantity > 0 {
			raw = Float(*first.RawQuantity * qty / first.Quantity)
		} else {
			raw = Float(qty)
		}
	}
	updated := first.WithQuantity(qty, raw)
	if unit != "" {
		updated.Unit = unit
	}
	out := make([]Item, len(items))
	out[0] = updated
	copy(out[1:], items[1:])
	g[k] = out
	return nil
}
