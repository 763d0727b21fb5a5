package engine

import (
	"time"

	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/planner"
	"github.com/danieljhkim/smokeplan/internal/state"
	"github.com/danieljhkim/smokeplan/internal/sync"
)

// PrefillResult represents the result of a prefill.
type PrefillResult struct {
	Week   string                `json:"week"`
	Plan   *state.PlanState      `json:"plan"`
	Report planner.PrefillReport `json:"report"`

	// Saved is false for dry runs
	Saved bool `json:"saved"`

	// Replaced is true when an existing plan was overwritten
	Replaced bool `json:"replaced"`
}

// MoveResult represents the result of an accepted move.
type MoveResult struct {
	Week     string       `json:"week"`
	Src      grid.SlotKey `json:"src"`
	Dst      grid.SlotKey `json:"dst"`
	SrcItems []grid.Item  `json:"srcItems"`
	DstItems []grid.Item  `json:"dstItems"`
	Revision string       `json:"revision"`

	// Dropped is the quantity cut off by a split move
	Dropped float64 `json:"dropped,omitempty"`
}

// ShowResult represents a plan prepared for display.
type ShowResult struct {
	Week       string           `json:"week"`
	WeekStart  time.Time        `json:"weekStart"`
	Dimensions grid.Dimensions  `json:"dimensions"`
	Plan       *state.PlanState `json:"plan"`
	Grid       grid.Grid        `json:"-"`

	// Loads[day][unit-1] is the summed raw quantity of that smoker on that day
	Loads [][]float64 `json:"loads"`

	// Verified is false when the stored digest does not match the slots
	Verified bool `json:"verified"`
}

// EditResult represents the result of a note or dose edit.
type EditResult struct {
	Week     string       `json:"week"`
	Slot     grid.SlotKey `json:"slot"`
	Items    []grid.Item  `json:"items"`
	Revision string       `json:"revision"`
}

// ExportResult represents the result of an export.
type ExportResult struct {
	Week    string `json:"week"`
	Format  string `json:"format"`
	Path    string `json:"path"`
	Records int    `json:"records"`

	// Occupied counts the records of slots holding a batch
	Occupied int `json:"occupied"`

	// Checksum is the SHA-256 of the written file
	Checksum string `json:"checksum"`

	// Archive fields are set when an archive was requested
	ArchiveKey      string `json:"archiveKey,omitempty"`
	ArchiveLocation string `json:"archiveLocation,omitempty"`

	// AlreadyArchived is true when this revision was archived before
	AlreadyArchived bool `json:"alreadyArchived,omitempty"`
}

// StatusResult represents the planned flags of source items.
type StatusResult struct {
	Week      string        `json:"week"`
	PlanFound bool          `json:"planFound"`
	Items     []sync.Status `json:"items"`
	Planned   int           `json:"planned"`
	Unplanned int           `json:"unplanned"`

	// Remaining lists the items still to be planned, ready for another prefill
	Remaining []grid.Item `json:"remaining"`
}

// CapacityRow is the capacity of one smoker.
type CapacityRow struct {
	Unit      int     `json:"unit"`
	Capacity  float64 `json:"capacity"`
	Unlimited bool    `json:"unlimited"`
	Reserved  bool    `json:"reserved"`
}

// CapacityResult lists per-smoker capacities for a category.
type CapacityResult struct {
	Category         string        `json:"category,omitempty"`
	ReservedCategory string        `json:"reservedCategory,omitempty"`
	Rows             []CapacityRow `json:"rows"`
}
