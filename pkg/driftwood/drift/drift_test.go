package drift

import (
	"os"
	"testing"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/inventory"
	"github.com/jamesainslie/driftwood/pkg/driftwood/snapshot"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

func inv(root string, paths ...string) *inventory.Inventory {
	in := &inventory.Inventory{Root: root}
	for _, p := range paths {
		in.Files = append(in.Files, types.PathRecord{RelPath: p, ModTime: time.Now()})
	}
	return in
}

func equalPaths(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != types.PathKey(want[i]) {
			return false
		}
	}
	return true
}

func TestCheckBaseline(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	tracker := NewTracker(store)

	report, err := tracker.Check(inv("/repo", "a.tmp", "b.log"))
	if err != nil {
		t.Fatal(err)
	}

	if !report.Baseline {
		t.Error("first check did not report a baseline")
	}
	if len(report.Added) != 0 || len(report.Removed) != 0 {
		t.Errorf("baseline reported changes: +%v -%v", report.Added, report.Removed)
	}

	snap, err := store.Load("/repo")
	if err != nil {
		t.Fatalf("baseline snapshot not written: %v", err)
	}
	if !equalPaths(snap.Paths, []string{"a.tmp", "b.log"}) {
		t.Errorf("snapshot paths = %v", snap.Paths)
	}
}

func TestCheckDiffAndOverwrite(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	tracker := NewTracker(store)

	if _, err := tracker.Check(inv("/repo", "a.tmp", "b.log", "c.pyc")); err != nil {
		t.Fatal(err)
	}

	// Two temp files appear, one log disappears.
	report, err := tracker.Check(inv("/repo", "a.tmp", "c.pyc", "new1.tmp", "new2.tmp"))
	if err != nil {
		t.Fatal(err)
	}

	if report.Baseline {
		t.Error("second check reported a baseline")
	}
	if !equalPaths(report.Added, []string{"new1.tmp", "new2.tmp"}) {
		t.Errorf("Added = %v", report.Added)
	}
	if !equalPaths(report.Removed, []string{"b.log"}) {
		t.Errorf("Removed = %v", report.Removed)
	}
	if report.Unchanged != 2 {
		t.Errorf("Unchanged = %d, want 2", report.Unchanged)
	}
	if report.PreviousAt.IsZero() {
		t.Error("PreviousAt not set on a diff report")
	}

	// The snapshot now reflects the current state: a third identical
	// check sees no drift.
	report, err = tracker.Check(inv("/repo", "a.tmp", "c.pyc", "new1.tmp", "new2.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Added) != 0 || len(report.Removed) != 0 || report.Unchanged != 4 {
		t.Errorf("third check = +%v -%v unchanged=%d", report.Added, report.Removed, report.Unchanged)
	}
}

func TestCheckPartitionLaw(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	tracker := NewTracker(store)

	prev := []string{"a", "b", "c", "d"}
	cur := []string{"b", "d", "e", "f"}

	if _, err := tracker.Check(inv("/repo", prev...)); err != nil {
		t.Fatal(err)
	}
	report, err := tracker.Check(inv("/repo", cur...))
	if err != nil {
		t.Fatal(err)
	}

	// cur = (prev − removed) ∪ added, and added ∩ removed = ∅.
	rebuilt := make(map[string]struct{})
	for _, p := range prev {
		rebuilt[types.PathKey(p)] = struct{}{}
	}
	for _, p := range report.Removed {
		delete(rebuilt, p)
	}
	added := make(map[string]struct{})
	for _, p := range report.Added {
		if _, dup := added[p]; dup {
			t.Errorf("duplicate added path %q", p)
		}
		added[p] = struct{}{}
		rebuilt[p] = struct{}{}
	}
	for _, p := range report.Removed {
		if _, both := added[p]; both {
			t.Errorf("path %q both added and removed", p)
		}
	}

	if len(rebuilt) != len(cur) {
		t.Fatalf("rebuilt set has %d paths, want %d", len(rebuilt), len(cur))
	}
	for _, p := range cur {
		if _, ok := rebuilt[types.PathKey(p)]; !ok {
			t.Errorf("rebuilt set missing %q", p)
		}
	}
	if report.Unchanged+len(report.Added) != len(cur) {
		t.Errorf("unchanged %d + added %d != current %d",
			report.Unchanged, len(report.Added), len(cur))
	}
}

func TestCheckCorruptSnapshotRebaselines(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	tracker := NewTracker(store)

	if _, err := tracker.Check(inv("/repo", "a.tmp")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.PathFor("/repo"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := tracker.Check(inv("/repo", "a.tmp", "b.tmp"))
	if err != nil {
		t.Fatalf("corrupt snapshot was fatal: %v", err)
	}
	if !report.Baseline {
		t.Error("corrupt snapshot did not trigger a re-baseline")
	}

	// The rewritten snapshot is usable again.
	if _, err := store.Load("/repo"); err != nil {
		t.Errorf("snapshot still unusable after re-baseline: %v", err)
	}
}

func TestCheckRootsAreIndependent(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	tracker := NewTracker(store)

	if _, err := tracker.Check(inv("/repo-a", "a.tmp")); err != nil {
		t.Fatal(err)
	}
	report, err := tracker.Check(inv("/repo-b", "b.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if !report.Baseline {
		t.Error("second worktree saw the first worktree's snapshot")
	}
}

func TestSinceThreshold(t *testing.T) {
	cutoff := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	in := &inventory.Inventory{
		Root: "/repo",
		Files: []types.PathRecord{
			{RelPath: "old.log", ModTime: cutoff.Add(-time.Hour)},
			{RelPath: "exact.log", ModTime: cutoff},
			{RelPath: "new1.tmp", ModTime: cutoff.Add(time.Minute)},
			{RelPath: "new2.tmp", ModTime: cutoff.Add(time.Hour)},
		},
	}

	dir := t.TempDir()
	store := snapshot.NewStore(dir)
	tracker := NewTracker(store)

	got := tracker.Since(in, cutoff)

	if !equalPaths(got, []string{"new1.tmp", "new2.tmp"}) {
		t.Errorf("Since = %v, want the two newer files", got)
	}

	// Threshold mode must leave the snapshot store untouched.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Since touched the snapshot store: %v", entries)
	}
}
