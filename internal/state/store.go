package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/smokeplan/internal/fsops"
)

// PlanStore provides an interface for persisting weekly plans.
type PlanStore interface {
	// LoadPlan loads the plan for the given week.
	// Returns os.ErrNotExist if the plan doesn't exist.
	LoadPlan(ctx context.Context, week string) (*PlanState, error)

	// SavePlan saves the plan, replacing any previous version of its week.
	SavePlan(ctx context.Context, plan *PlanState) error

	// DeletePlan deletes the plan for the given week. Missing plans are not an error.
	DeletePlan(ctx context.Context, week string) error

	// ListPlans returns the stored plans ordered by week.
	ListPlans(ctx context.Context) ([]PlanSummary, error)

	// Close releases any resources held by the store.
	Close() error
}

// FilePlanStore implements PlanStore using JSON files on disk.
type FilePlanStore struct {
	fs       fsops.FS
	plansDir string
}

// NewFilePlanStore creates a new FilePlanStore.
func NewFilePlanStore(fs fsops.FS, plansDir string) *FilePlanStore {
	return &FilePlanStore{
		fs:       fs,
		plansDir: plansDir,
	}
}

func (s *FilePlanStore) planPath(week string) (string, error) {
	if err := s.fs.ValidateIdentifier(week); err != nil {
		return "", fmt.Errorf("invalid week: %w", err)
	}
	return filepath.Join(s.plansDir, week+".json"), nil
}

// LoadPlan loads the plan for the given week.
func (s *FilePlanStore) LoadPlan(_ context.Context, week string) (*PlanState, error) {
	path, err := s.planPath(week)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var plan PlanState
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}

	return &plan, nil
}

// SavePlan saves the plan atomically.
func (s *FilePlanStore) SavePlan(_ context.Context, plan *PlanState) error {
	path, err := s.planPath(plan.Week)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	return nil
}

// DeletePlan deletes the plan file.
func (s *FilePlanStore) DeletePlan(_ context.Context, week string) error {
	path, err := s.planPath(week)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	return nil
}

// ListPlans returns a summary of every plan file.
func (s *FilePlanStore) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	names, err := s.fs.ListFiles(s.plansDir, ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	summaries := make([]PlanSummary, 0, len(names))
	for _, name := range names {
		plan, err := s.LoadPlan(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, plan.Summary())
	}
	return summaries, nil
}

// Close is a no-op for file-backed plans.
func (s *FilePlanStore) Close() error {
	return nil
}
