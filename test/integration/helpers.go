package integration

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/smokeplan/internal/blob"
	"github.com/danieljhkim/smokeplan/internal/clock"
	"github.com/danieljhkim/smokeplan/internal/config"
	"github.com/danieljhkim/smokeplan/internal/engine"
	"github.com/danieljhkim/smokeplan/internal/fsops"
	"github.com/danieljhkim/smokeplan/internal/hash"
	"github.com/danieljhkim/smokeplan/internal/state"
)

// testFS is a filesystem implementation that tracks files in memory for testing
type testFS struct {
	files map[string][]byte
	dirs  map[string]bool
}

func newTestFS() *testFS {
	return &testFS{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (fs *testFS) MkdirAll(path string, perm os.FileMode) error {
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		fs.dirs[p] = true
	}
	return nil
}

func (fs *testFS) Remove(path string) error {
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	delete(fs.dirs, path)
	return nil
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	_ = fs.MkdirAll(filepath.Dir(path), 0755)
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) Exists(path string) (bool, error) {
	_, hasFile := fs.files[path]
	return hasFile || fs.dirs[path], nil
}

func (fs *testFS) ListFiles(dir, ext string) ([]string, error) {
	names := []string{}
	for p := range fs.files {
		if filepath.Dir(p) == dir && strings.HasSuffix(p, ext) {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (fs *testFS) ValidateIdentifier(id string) error {
	return fsops.NewRealFS().ValidateIdentifier(id)
}

// filesUnder returns the paths stored below dir.
func (fs *testFS) filesUnder(dir string) []string {
	var out []string
	for p := range fs.files {
		if strings.HasPrefix(p, dir+string(filepath.Separator)) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// testWeek is the Monday after the fixed test clock.
const testWeek = "2025-09-08"

type testEnv struct {
	eng   *engine.Engine
	fs    *testFS
	clock *clock.FakeClock
	paths *config.Paths
	store state.PlanStore
	blob  blob.Store
}

// setupTestEngine creates an engine over an in-memory filesystem. A nil
// store selects a file store on that filesystem.
func setupTestEngine(t *testing.T, store state.PlanStore, archive blob.Store) *testEnv {
	t.Helper()
	fs := newTestFS()
	paths := config.PathsAt("/smokeplan")
	if store == nil {
		store = state.NewFilePlanStore(fs, paths.Plans)
	}
	clk := clock.NewFakeClock(time.Date(2025, 9, 3, 14, 30, 0, 0, time.UTC))

	eng := engine.New(engine.Deps{
		Config: config.Default(),
		Paths:  paths,
		Store:  store,
		FS:     fs,
		Hasher: hash.NewSHA256Hasher(),
		Clock:  clk,
		Blob:   archive,
	})
	return &testEnv{eng: eng, fs: fs, clock: clk, paths: paths, store: store, blob: archive}
}

// weekItems is a realistic intake document for one week.
const weekItems = `{
  "week": "2025-09-08",
  "items": [
    {"rc": "100", "sk": "S1", "name": "Krkovice", "unit": "kg", "quantity": 950},
    {"rc": "200", "sk": "S2", "name": "Hovezi Biltong", "unit": "kg", "quantity": 180, "category": "biltong"},
    {"rc": "300", "sk": "S3", "name": "Slanina", "unit": "kg", "quantity": 200, "rawQuantity": 260},
    {"name": "Klobasa", "unit": "kg", "quantity": 120, "note": "chili"}
  ]
}`
