package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danieljhkim/smokeplan/internal/fsops"
)

// FSStore keeps blobs as files below a root directory.
type FSStore struct {
	root string
	fs   fsops.FS
}

// NewFSStore returns a filesystem store rooted at root, creating it if needed.
func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("blob root required")
	}
	fsys := fsops.NewRealFS()
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FSStore{root: root, fs: fsys}, nil
}

func (s *FSStore) Driver() string { return "fs" }

// sanitizeKey rejects empty, absolute and traversing keys.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key contains '..'")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key")
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}

// Put writes r to key. Existing keys are never overwritten.
func (s *FSStore) Put(_ context.Context, key string, r io.Reader, _ string) (Info, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return Info{}, err
	}
	p := filepath.Join(s.root, filepath.FromSlash(k))
	exists, err := s.fs.Exists(p)
	if err != nil {
		return Info{}, fmt.Errorf("failed to check blob: %w", err)
	}
	if exists {
		return Info{}, fmt.Errorf("%s: %w", key, ErrExists)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read blob body: %w", err)
	}
	if err := s.fs.AtomicWrite(p, data, 0o644); err != nil {
		return Info{}, fmt.Errorf("failed to write blob: %w", err)
	}
	st, err := os.Stat(p)
	if err != nil {
		return Info{}, err
	}
	return Info{Key: k, Size: st.Size(), LastModified: st.ModTime().UTC(), Location: p}, nil
}

// List returns the blobs whose key starts with prefix, ordered by key.
func (s *FSStore) List(_ context.Context, prefix string) ([]Info, error) {
	infos := []Info{}
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		st, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, Info{Key: key, Size: st.Size(), LastModified: st.ModTime().UTC(), Location: p})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
