package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/smokeplan/internal/blob"
	"github.com/danieljhkim/smokeplan/internal/clock"
	"github.com/danieljhkim/smokeplan/internal/config"
	"github.com/danieljhkim/smokeplan/internal/engine"
	"github.com/danieljhkim/smokeplan/internal/fsops"
	"github.com/danieljhkim/smokeplan/internal/hash"
	"github.com/danieljhkim/smokeplan/internal/intake"
	"github.com/danieljhkim/smokeplan/internal/logging"
	"github.com/danieljhkim/smokeplan/internal/metrics"
	"github.com/danieljhkim/smokeplan/internal/state"
)

// newEngine creates a new engine with real implementations of all dependencies.
// The returned cleanup writes the metrics textfile and releases the store and log.
func newEngine(ctx context.Context) (*engine.Engine, func(), error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfgPath := paths.Config
	if configFlag != "" {
		cfgPath = configFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	fs := fsops.NewRealFS()
	store, err := openPlanStore(ctx, cfg, paths, fs)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(paths.Logs)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	archive, err := blob.Open(ctx, cfg.Blob, filepath.Join(paths.Root, "archive"))
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, nil, fmt.Errorf("failed to open archive store: %w", err)
	}

	rec := metrics.NewPrometheusRecorder()
	eng := engine.New(engine.Deps{
		Config:  cfg,
		Paths:   paths,
		Store:   store,
		FS:      fs,
		Hasher:  hash.NewSHA256Hasher(),
		Clock:   &clock.RealClock{},
		Logger:  logger,
		Metrics: rec,
		Blob:    archive,
	})

	cleanup := func() {
		if cfg.Metrics.Textfile != "" {
			if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				logger.Printf("%v", err)
			}
		}
		_ = store.Close()
		_ = logger.Close()
	}
	return eng, cleanup, nil
}

// openPlanStore opens the plan store selected by the config.
func openPlanStore(ctx context.Context, cfg *config.Config, paths *config.Paths, fs fsops.FS) (state.PlanStore, error) {
	switch cfg.Store.Driver {
	case config.StoreFile:
		return state.NewFilePlanStore(fs, paths.Plans), nil
	case config.StoreSQLite:
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = paths.DB
		}
		return state.OpenSQLite(ctx, dsn)
	case config.StorePostgres:
		return state.OpenPostgres(ctx, cfg.Store.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// loadItems reads an item file. The --week flag wins over the file's week.
func loadItems(path string) (*intake.File, string, error) {
	file, err := intake.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	week := weekFlag
	if week == "" {
		week = file.Week
	}
	return file, week, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// promptConfirm asks a yes/no question on out and reads one answer line from
// in. Commands asking more than one question share a single reader.
func promptConfirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s (y/N): ", prompt)
	response, err := in.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
