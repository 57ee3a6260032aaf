package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// createTestTree creates a temporary worktree-like directory structure.
// Returns the root path; cleanup happens via t.TempDir.
func createTestTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	// Structure:
	// root/
	//   .git/            (must never be scanned)
	//     HEAD
	//   main.go
	//   build/
	//     out.o
	//   docs/
	//     notes.txt
	//   empty/
	dirs := []string{
		filepath.Join(root, ".git"),
		filepath.Join(root, "build"),
		filepath.Join(root, "docs"),
		filepath.Join(root, "empty"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create dir %s: %v", dir, err)
		}
	}

	files := map[string]string{
		filepath.Join(root, ".git", "HEAD"):      "ref: refs/heads/main\n",
		filepath.Join(root, "main.go"):           "package main\n",
		filepath.Join(root, "build", "out.o"):    "oooo",
		filepath.Join(root, "docs", "notes.txt"): "hello\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to create file %s: %v", path, err)
		}
	}

	return root
}

func TestScanBasic(t *testing.T) {
	root := createTestTree(t)

	s := New(Options{Root: root})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	byPath := make(map[string]types.PathRecord)
	for _, rec := range result.Records {
		byPath[rec.RelPath] = rec
	}

	// Files outside .git must all be present.
	for _, want := range []string{"main.go", "build/out.o", "docs/notes.txt"} {
		rec, ok := byPath[want]
		if !ok {
			t.Errorf("missing record for %q", want)
			continue
		}
		if rec.IsDir {
			t.Errorf("%q recorded as directory", want)
		}
		if rec.Size <= 0 {
			t.Errorf("%q has size %d, want > 0", want, rec.Size)
		}
		if rec.ModTime.IsZero() {
			t.Errorf("%q has zero ModTime", want)
		}
	}

	// Directories appear as records too, including empty ones.
	for _, want := range []string{"build", "docs", "empty"} {
		rec, ok := byPath[want]
		if !ok {
			t.Errorf("missing directory record for %q", want)
			continue
		}
		if !rec.IsDir {
			t.Errorf("%q recorded as file", want)
		}
	}

	if result.FilesScanned != 3 {
		t.Errorf("FilesScanned = %d, want 3", result.FilesScanned)
	}
	if result.Elapsed == 0 {
		t.Error("expected Elapsed to be set")
	}
	if result.Root == "" {
		t.Error("expected Root to be set")
	}
}

func TestScanExcludesGitMetadata(t *testing.T) {
	root := createTestTree(t)

	// Nested .git directories are skipped anywhere in the tree.
	nested := filepath.Join(root, "vendor", "dep", ".git")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested .git: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "config"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create nested .git file: %v", err)
	}

	s := New(Options{Root: root})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for _, rec := range result.Records {
		if rec.RelPath == ".git" || filepath.Base(rec.RelPath) == ".git" {
			t.Errorf("git metadata leaked into records: %q", rec.RelPath)
		}
		if len(rec.RelPath) >= 5 && rec.RelPath[:5] == ".git/" {
			t.Errorf("path under .git leaked into records: %q", rec.RelPath)
		}
	}
}

func TestScanExcludePatterns(t *testing.T) {
	root := createTestTree(t)

	s := New(Options{Root: root, Exclude: []string{"build"}})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for _, rec := range result.Records {
		if rec.RelPath == "build" || rec.RelPath == "build/out.o" {
			t.Errorf("excluded path present: %q", rec.RelPath)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	s := New(Options{Root: filepath.Join(t.TempDir(), "does-not-exist")})
	if _, err := s.Scan(context.Background()); err == nil {
		t.Error("Scan of missing root expected error, got nil")
	}
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	s := New(Options{Root: file})
	if _, err := s.Scan(context.Background()); err == nil {
		t.Error("Scan of non-directory root expected error, got nil")
	}
}

func TestScanProgressCallback(t *testing.T) {
	root := createTestTree(t)

	var calls atomic.Int64
	s := New(Options{
		Root: root,
		OnProgress: func(p types.ScanProgress) {
			calls.Add(1)
		},
	})

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if calls.Load() == 0 {
		t.Error("expected at least one progress callback")
	}
}

func TestScanRelativePathsUseSlashes(t *testing.T) {
	root := createTestTree(t)

	s := New(Options{Root: root})
	result, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for _, rec := range result.Records {
		if filepath.IsAbs(rec.RelPath) {
			t.Errorf("record path is absolute: %q", rec.RelPath)
		}
		for _, c := range rec.RelPath {
			if c == '\\' {
				t.Errorf("record path contains backslash: %q", rec.RelPath)
			}
		}
	}
}

func TestMatchesExclusionPattern(t *testing.T) {
	tests := []struct {
		name    string
		rel     string
		pattern string
		want    bool
	}{
		{name: "exact match", rel: "build", pattern: "build", want: true},
		{name: "prefix match", rel: "build/out.o", pattern: "build", want: true},
		{name: "basename glob", rel: "docs/draft.tmp", pattern: "*.tmp", want: true},
		{name: "path glob", rel: "docs/notes.txt", pattern: "docs/*.txt", want: true},
		{name: "no match", rel: "main.go", pattern: "*.tmp", want: false},
		{name: "empty pattern", rel: "main.go", pattern: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesExclusionPattern(tt.rel, tt.pattern); got != tt.want {
				t.Errorf("matchesExclusionPattern(%q, %q) = %v, want %v", tt.rel, tt.pattern, got, tt.want)
			}
		})
	}
}
