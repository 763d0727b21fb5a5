// Package engine provides the application logic behind the smokeplan CLI.
//
// The engine is the orchestration layer between CLI commands and the pure
// allocation code in planner. It resolves plan weeks, loads and saves plans,
// builds the rule engine from configuration, and reports to the log, the
// metrics recorder and the archive store.
//
// Key components:
//   - Engine: main orchestrator constructed from Deps
//   - Prefill/Move: plan construction and slot swaps through the rule engine
//   - Show/Export/Status: read-side views of a stored plan
//   - SetNote/SetDose: per-slot edits
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danieljhkim/smokeplan/internal/blob"
	"github.com/danieljhkim/smokeplan/internal/clock"
	"github.com/danieljhkim/smokeplan/internal/config"
	"github.com/danieljhkim/smokeplan/internal/fsops"
	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/hash"
	"github.com/danieljhkim/smokeplan/internal/logging"
	"github.com/danieljhkim/smokeplan/internal/metrics"
	"github.com/danieljhkim/smokeplan/internal/persist"
	"github.com/danieljhkim/smokeplan/internal/planner"
	"github.com/danieljhkim/smokeplan/internal/state"
)

// Deps are the collaborators of an Engine. Logger, Metrics and Blob are optional.
type Deps struct {
	Config  *config.Config
	Paths   *config.Paths
	Store   state.PlanStore
	FS      fsops.FS
	Hasher  hash.Hasher
	Clock   clock.Clock
	Logger  *logging.Logger
	Metrics metrics.Recorder
	Blob    blob.Store
}

// Engine orchestrates all smokeplan operations.
// It is the main API surface called by the CLI.
type Engine struct {
	cfg      *config.Config
	paths    *config.Paths
	store    state.PlanStore
	fs       fsops.FS
	hasher   hash.Hasher
	clock    clock.Clock
	log      *logging.Logger
	metrics  metrics.Recorder
	blob     blob.Store
	rules    *planner.RuleEngine
	archives *persist.ArchiveManager
}

// New creates a new Engine with the given dependencies.
func New(d Deps) *Engine {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rec := d.Metrics
	if rec == nil {
		rec = metrics.Noop{}
	}
	clk := d.Clock
	if clk == nil {
		clk = &clock.RealClock{}
	}
	hasher := d.Hasher
	if hasher == nil {
		hasher = hash.NewSHA256Hasher()
	}
	return &Engine{
		cfg:      cfg,
		paths:    d.Paths,
		store:    d.Store,
		fs:       d.FS,
		hasher:   hasher,
		clock:    clk,
		log:      d.Logger,
		metrics:  rec,
		blob:     d.Blob,
		rules:    newRuleEngine(cfg),
		archives: persist.NewArchiveManager(d.FS, hasher),
	}
}

// newRuleEngine maps the config sections onto planner options.
func newRuleEngine(cfg *config.Config) *planner.RuleEngine {
	return planner.New(planner.Options{
		Capacity:          cfg.CapacityTable(),
		ReservedUnit:      cfg.Reservation.Unit,
		ReservedCategory:  cfg.Reservation.Category,
		PreferLargerUnits: cfg.Prefill.PreferLargerUnits,
	})
}

// Rules returns the rule engine built from the config.
func (e *Engine) Rules() *planner.RuleEngine {
	return e.rules
}

// Dimensions returns the configured grid shape used for new plans.
func (e *Engine) Dimensions() grid.Dimensions {
	return e.cfg.Dimensions()
}

// WeekOf returns the plan week that follows t: the next Monday.
func (e *Engine) WeekOf(t time.Time) string {
	return state.FormatWeek(clock.NextMonday(t))
}

// resolveWeek validates week, defaulting to the week after today.
func (e *Engine) resolveWeek(week string) (string, time.Time, error) {
	if week == "" {
		week = e.WeekOf(e.clock.Now())
	}
	start, err := state.ParseWeek(week)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return week, start, nil
}

// loadPlan loads the plan of week and rebuilds its grid.
func (e *Engine) loadPlan(ctx context.Context, week string) (*state.PlanState, grid.Grid, error) {
	plan, err := e.store.LoadPlan(ctx, week)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("week %s: %w", week, ErrPlanNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load plan: %w", err)
	}
	g, err := plan.Grid()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rebuild plan grid: %w", err)
	}
	return plan, g, nil
}

// savePlan stores g as the plan's new content under a fresh revision.
func (e *Engine) savePlan(ctx context.Context, plan *state.PlanState, g grid.Grid) error {
	plan.SetGrid(g)
	plan.Touch(e.clock.Now())
	if err := e.archives.Seal(plan); err != nil {
		return err
	}
	if err := e.store.SavePlan(ctx, plan); err != nil {
		e.log.Printf("save week=%s failed: %v", plan.Week, err)
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// checkSlot rejects keys outside the plan's grid.
func checkSlot(d grid.Dimensions, k grid.SlotKey) error {
	if !d.Contains(k) {
		return fmt.Errorf("%s not in %dx%dx%d grid: %w", k, d.Days, d.Units, d.Positions, ErrInvalidSlot)
	}
	return nil
}

func (e *Engine) observe(operation string, start time.Time) {
	e.metrics.ObserveDuration(operation, e.clock.Now().Sub(start))
}
