package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/smokeplan/internal/fsops"
	"github.com/danieljhkim/smokeplan/internal/grid"
	"github.com/danieljhkim/smokeplan/internal/planner"
)

func samplePlan(t *testing.T, week string) *PlanState {
	t.Helper()
	d := grid.Dimensions{Days: 2, Units: 2, Positions: 2}
	g := grid.New(d)
	g[grid.SlotKey{Day: 0, Unit: 1, Position: 1}] = []grid.Item{{Name: "Sunka", Unit: "kg", Quantity: 120, SourceID: "s1"}}
	g[grid.SlotKey{Day: 1, Unit: 2, Position: 2}] = []grid.Item{{Name: "Biltong", Unit: "kg", Quantity: 40, PartIndex: grid.Int(2)}}

	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	p := NewPlanState(week, d, g, now)
	p.Unplaced = []planner.Unplaced{{Name: "Klobasa", Requested: 900, Placed: 800, Remaining: 100}}
	return p
}

// exercisePlanStore runs the behaviour shared by every PlanStore.
func exercisePlanStore(t *testing.T, store PlanStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.LoadPlan(ctx, "2025-09-08"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadPlan(missing) error = %v, want os.ErrNotExist", err)
	}

	plan := samplePlan(t, "2025-09-08")
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}

	loaded, err := store.LoadPlan(ctx, "2025-09-08")
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}
	if loaded.Revision != plan.Revision {
		t.Errorf("Revision = %q, want %q", loaded.Revision, plan.Revision)
	}
	if len(loaded.Slots) != 2 || len(loaded.Unplaced) != 1 {
		t.Errorf("loaded plan = %+v", loaded)
	}

	g, err := loaded.Grid()
	if err != nil {
		t.Fatalf("Grid() error = %v", err)
	}
	part := g[grid.SlotKey{Day: 1, Unit: 2, Position: 2}]
	if len(part) != 1 || part[0].PartIndex == nil || *part[0].PartIndex != 2 {
		t.Errorf("part slot = %+v", part)
	}

	plan.Touch(plan.UpdatedAt.Add(time.Hour))
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan(update) error = %v", err)
	}
	if err := store.SavePlan(ctx, samplePlan(t, "2025-09-15")); err != nil {
		t.Fatalf("SavePlan(second) error = %v", err)
	}

	list, err := store.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans() error = %v", err)
	}
	if len(list) != 2 || list[0].Week != "2025-09-08" || list[1].Week != "2025-09-15" {
		t.Fatalf("ListPlans() = %+v", list)
	}
	if list[0].Revision != plan.Revision {
		t.Errorf("listed revision = %q, want updated %q", list[0].Revision, plan.Revision)
	}

	if err := store.DeletePlan(ctx, "2025-09-08"); err != nil {
		t.Fatalf("DeletePlan() error = %v", err)
	}
	if err := store.DeletePlan(ctx, "2025-09-08"); err != nil {
		t.Fatalf("DeletePlan(again) error = %v", err)
	}
	if _, err := store.LoadPlan(ctx, "2025-09-08"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadPlan(deleted) error = %v, want os.ErrNotExist", err)
	}
}

func TestFilePlanStore(t *testing.T) {
	store := NewFilePlanStore(fsops.NewRealFS(), filepath.Join(t.TempDir(), "plans"))
	defer store.Close()
	exercisePlanStore(t, store)
}

func TestFilePlanStore_RejectsUnsafeWeek(t *testing.T) {
	store := NewFilePlanStore(fsops.NewRealFS(), t.TempDir())
	if _, err := store.LoadPlan(context.Background(), "../etc"); err == nil {
		t.Error("expected error for unsafe week id")
	}
}

func TestSQLStore_SQLite(t *testing.T) {
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer store.Close()
	exercisePlanStore(t, store)
}

func TestSQLStore_Postgres(t *testing.T) {
	dsn := os.Getenv("SMOKEPLAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SMOKEPLAN_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer store.Close()
	for _, week := range []string{"2025-09-08", "2025-09-15"} {
		_ = store.DeletePlan(ctx, week)
	}
	exercisePlanStore(t, store)
}

func TestSQLStore_Rebind(t *testing.T) {
	pg := &SQLStore{dialect: DialectPostgres}
	if got := pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"); got != "SELECT a FROM t WHERE x = $1 AND y = $2" {
		t.Errorf("rebind() = %q", got)
	}
	lite := &SQLStore{dialect: DialectSQLite}
	if got := lite.rebind("x = ?"); got != "x = ?" {
		t.Errorf("rebind(sqlite) = %q", got)
	}
}

func TestParseWeek(t *testing.T) {
	tests := []struct {
		week    string
		wantErr bool
	}{
		{"2025-09-08", false},
		{"2025-09-09", true},
		{"08.09.2025", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.week, func(t *testing.T) {
			got, err := ParseWeek(tt.week)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeek(%q) error = %v, wantErr %v", tt.week, err, tt.wantErr)
			}
			if err == nil && FormatWeek(got) != tt.week {
				t.Errorf("FormatWeek(ParseWeek(%q)) = %q", tt.week, FormatWeek(got))
			}
		})
	}
}

func TestPlanState_GridRejectsForeignSlots(t *testing.T) {
	p := samplePlan(t, "2025-09-08")
	p.Slots = append(p.Slots, SlotState{Day: 9, Unit: 1, Position: 1})
	if _, err := p.Grid(); !errors.Is(err, grid.ErrOutOfGrid) {
		t.Errorf("Grid() error = %v, want ErrOutOfGrid", err)
	}
}
