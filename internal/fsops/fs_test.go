package fsops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRealFS_ValidateIdentifier(t *testing.T) {
	fs := &RealFS{}

	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{"week id", "2025-09-08", false},
		{"with underscores", "plan_uzeni_2025_09_08", false},
		{"empty identifier", "", true},
		{"current directory", ".", true},
		{"parent directory", "..", true},
		{"path with separator", "2025/09", true},
		{"path with backslash", "2025\\09", true},
		{"absolute path", "/etc/hosts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	existing := filepath.Join(tmpDir, "plan.json")
	if err := os.WriteFile(existing, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	ok, err := fs.Exists(existing)
	if err != nil || !ok {
		t.Errorf("Exists(existing) = %v, %v; want true, nil", ok, err)
	}

	ok, err = fs.Exists(filepath.Join(tmpDir, "missing.json"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	t.Run("write to new file in new directory", func(t *testing.T) {
		target := filepath.Join(tmpDir, "plans", "2025-09-08.json")
		if err := fs.AtomicWrite(target, []byte("first"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		got, err := os.ReadFile(target)
		if err != nil {
			t.Fatalf("failed to read written file: %v", err)
		}
		if string(got) != "first" {
			t.Errorf("content = %q, want %q", got, "first")
		}
	})

	t.Run("overwrite existing file", func(t *testing.T) {
		target := filepath.Join(tmpDir, "overwrite.json")
		if err := os.WriteFile(target, []byte("initial"), 0644); err != nil {
			t.Fatalf("failed to create initial file: %v", err)
		}
		if err := fs.AtomicWrite(target, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		got, _ := os.ReadFile(target)
		if string(got) != "overwritten" {
			t.Errorf("content = %q, want %q", got, "overwritten")
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		entries, err := os.ReadDir(tmpDir)
		if err != nil {
			t.Fatalf("ReadDir failed: %v", err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".smokeplan-tmp-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}

func TestRealFS_ReadFileAndRemove(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "remove-me.json")

	if err := os.WriteFile(target, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	got, err := fs.ReadFile(target)
	if err != nil || string(got) != "content" {
		t.Fatalf("ReadFile() = %q, %v", got, err)
	}

	if err := fs.Remove(target); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("file should have been removed")
	}
	if _, err := fs.ReadFile(target); err == nil {
		t.Error("ReadFile should fail for a removed file")
	}
}

func TestRealFS_ListFiles(t *testing.T) {
	fs := &RealFS{}
	tmpDir := t.TempDir()

	for _, name := range []string{"2025-09-15.json", "2025-09-08.json", "notes.txt", ".hidden.json"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "sub.json"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	names, err := fs.ListFiles(tmpDir, ".json")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	want := []string{"2025-09-08.json", "2025-09-15.json"}
	if len(names) != len(want) {
		t.Fatalf("ListFiles() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListFiles()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	missing, err := fs.ListFiles(filepath.Join(tmpDir, "nope"), ".json")
	if err != nil || len(missing) != 0 {
		t.Errorf("ListFiles(missing) = %v, %v; want empty, nil", missing, err)
	}
}
