package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()
		m, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		if m == nil {
			t.Fatal("New() returned nil")
		}
	})

	t.Run("empty directory rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := New(""); err == nil {
			t.Fatal("New(\"\") error = nil, want error")
		}
	})
}

func TestRecordAndGet(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "manifests")

	m, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	files := []FileRecord{
		{Path: "build/app.o", Size: 4096, Category: "build-artifact"},
		{Path: "tmp", Size: 128, IsDir: true, Category: "temporary"},
	}

	entry, err := m.Record("/repo", "safe", false, files)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if entry.ID == "" {
		t.Error("Record() produced empty ID")
	}
	if entry.Summary.TotalFiles != 2 || entry.Summary.TotalBytes != 4224 {
		t.Errorf("Summary = %+v, want 2 files / 4224 bytes", entry.Summary)
	}

	// The entry file exists under the lazily created directory.
	if _, err := os.Stat(filepath.Join(dir, entry.ID+".json")); err != nil {
		t.Fatalf("entry file missing: %v", err)
	}

	got, err := m.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Root != "/repo" || got.Policy != "safe" || len(got.Files) != 2 {
		t.Errorf("Get() = %+v, want recorded entry", got)
	}
	if got.Files[0].Path != "build/app.o" {
		t.Errorf("Files[0].Path = %q", got.Files[0].Path)
	}
}

func TestGetRejectsBadIDs(t *testing.T) {
	t.Parallel()
	m, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Get(""); err == nil {
		t.Error("Get(\"\") error = nil, want error")
	}
	if _, err := m.Get("../escape"); err == nil {
		t.Error("Get with path separator error = nil, want error")
	}

	_, err = m.Get("clean-2025-01-01T00-00-00-deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()
	m, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	for _, p := range []string{"a.tmp", "b.tmp", "c.tmp"} {
		entry, err := m.Record("/repo", "safe", false, []FileRecord{{Path: p, Size: 1}})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, entry.ID)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	if entries[0].ID != ids[2] {
		t.Errorf("List()[0].ID = %s, want newest %s", entries[0].ID, ids[2])
	}

	limited, err := m.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d entries, want 2", len(limited))
	}
}

func TestListMissingDirectory(t *testing.T) {
	t.Parallel()
	m, err := New(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatal(err)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatalf("List() error = %v, want nil for missing dir", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() returned %d entries, want 0", len(entries))
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()
	m, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if _, err := m.Record("/repo", "safe", false, []FileRecord{{Path: "x.tmp", Size: 1}}); err != nil {
			t.Fatal(err)
		}
	}

	pruned, err := m.Prune(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 0 {
		t.Errorf("Prune(old cutoff) = %d, want 0", pruned)
	}

	pruned, err = m.Prune(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if pruned != 2 {
		t.Errorf("Prune(future cutoff) = %d, want 2", pruned)
	}

	entries, err := m.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries survived the prune", len(entries))
	}
}
