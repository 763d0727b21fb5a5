package engine

import (
	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/planner"
)

// PrefillRequest represents a request to build a week's plan from items.
type PrefillRequest struct {
	// Items is the demand to place
	Items []grid.Item

	// Week is the plan week (YYYY-MM-DD Monday); empty means next Monday
	Week string

	// DryRun computes the plan without saving it
	DryRun bool

	// Replace allows overwriting an existing plan for the week
	Replace bool
}

// MoveRequest represents a request to move (swap) two slots.
type MoveRequest struct {
	Week string
	Src  grid.SlotKey
	Dst  grid.SlotKey

	// Confirm answers ASK outcomes; nil rejects them
	Confirm planner.ConfirmFunc

	// AllowSplit keeps the fitting part of an oversized item. The config
	// default applies when false.
	AllowSplit bool
}

// ShowRequest represents a request to display a plan.
type ShowRequest struct {
	Week string
}

// NoteRequest sets the note of a slot.
type NoteRequest struct {
	Week string
	Slot grid.SlotKey
	Note string
}

// DoseRequest sets the finished quantity of a slot's first occupant.
type DoseRequest struct {
	Week     string
	Slot     grid.SlotKey
	Quantity float64

	// Unit optionally replaces the unit of measure
	Unit string
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportRequest represents a request to export a plan.
type ExportRequest struct {
	Week string

	// Format is csv or json
	Format string

	// OutDir is the output directory; empty means the exports directory
	OutDir string

	// Archive also writes a compressed plan archive to the blob store
	Archive bool
}

// StatusRequest represents a request for the planned flags of source items.
type StatusRequest struct {
	Week  string
	Items []grid.Item
}
