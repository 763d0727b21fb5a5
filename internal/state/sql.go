package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Dialect selects SQL flavor differences between backends.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const defaultPostgresDSN = "postgres://localhost/smokeplan?sslmode=disable"

// SQLStore implements PlanStore on a single plans table. Each row holds the
// JSON encoded plan of one week.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (creating if needed) a SQLite plan database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		path = "plans.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite %s: %w", pragma, err)
		}
	}
	return newSQLStore(ctx, db, DialectSQLite)
}

// OpenPostgres opens a Postgres plan database using dsn.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLStore(ctx, db, DialectPostgres)
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.ensurePlansTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) ensurePlansTable(ctx context.Context) error {
	payloadType := "BLOB"
	if s.dialect == DialectPostgres {
		payloadType = "BYTEA"
	}
	stmt := `CREATE TABLE IF NOT EXISTS plans (
		week TEXT PRIMARY KEY,
		revision TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		payload ` + payloadType + ` NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create plans table: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadPlan loads the plan for the given week.
func (s *SQLStore) LoadPlan(ctx context.Context, week string) (*PlanState, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM plans WHERE week = ?`), week).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("select plan: %w", err)
	}
	var plan PlanState
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", week, err)
	}
	return &plan, nil
}

// SavePlan upserts the plan row for its week.
func (s *SQLStore) SavePlan(ctx context.Context, plan *PlanState) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	query := s.rebind(`INSERT INTO plans (week, revision, updated_at, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT (week) DO UPDATE SET revision = excluded.revision, updated_at = excluded.updated_at, payload = excluded.payload`)
	if _, err := s.db.ExecContext(ctx, query, plan.Week, plan.Revision, plan.UpdatedAt.UTC().Format(time.RFC3339Nano), payload); err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}

// DeletePlan removes the plan row for the given week.
func (s *SQLStore) DeletePlan(ctx context.Context, week string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM plans WHERE week = ?`), week); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// ListPlans returns every stored plan ordered by week.
func (s *SQLStore) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT week, revision, updated_at FROM plans ORDER BY week`)
	if err != nil {
		return nil, fmt.Errorf("select plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []PlanSummary{}
	for rows.Next() {
		var sum PlanSummary
		var updated string
		if err := rows.Scan(&sum.Week, &sum.Revision, &updated); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
			sum.UpdatedAt = t
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
