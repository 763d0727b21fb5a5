// Package config manages smokeplan configuration and filesystem paths.
//
// The default root is ~/.smokeplan/ containing plans/, exports/, logs/, the
// SQLite plan database and config.yaml. The root can be moved with the
// SMOKEPLAN_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the filesystem paths used by smokeplan.
type Paths struct {
	// Root is the base directory for all smokeplan data (default: ~/.smokeplan)
	Root string

	// Plans is the directory holding one JSON file per planned week
	Plans string

	// Exports is the default output directory for CSV/JSON exports and archives
	Exports string

	// Logs is the directory holding smokeplan.log
	Logs string

	// DB is the SQLite plan database used by the sqlite store driver
	DB string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for smokeplan.
// Paths can be overridden with environment variables:
// - SMOKEPLAN_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("SMOKEPLAN_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".smokeplan")
	}

	return PathsAt(root), nil
}

// PathsAt lays out the smokeplan directories under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:    root,
		Plans:   filepath.Join(root, "plans"),
		Exports: filepath.Join(root, "exports"),
		Logs:    filepath.Join(root, "logs"),
		DB:      filepath.Join(root, "plans.db"),
		Config:  filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.Root,
		p.Plans,
		p.Exports,
		p.Logs,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
