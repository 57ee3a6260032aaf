// Package drift compares a worktree's current ignored set against the
// snapshot recorded by the previous run, then replaces the snapshot with
// the current state. The first run, or any run whose snapshot cannot be
// read, records a baseline instead of a diff.
package drift

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/inventory"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/snapshot"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Tracker runs drift checks against a snapshot store.
type Tracker struct {
	store  *snapshot.Store
	logger *logging.Logger
	now    func() time.Time
}

// NewTracker creates a Tracker backed by the store.
func NewTracker(store *snapshot.Store) *Tracker {
	return &Tracker{
		store:  store,
		logger: logging.Get("drift"),
		now:    time.Now,
	}
}

// Check diffs the inventory against the previous snapshot and persists
// the current state. A missing or corrupt snapshot is never fatal; the
// check degrades to recording a fresh baseline. Failing to write the
// snapshot is fatal, since the next run would diff against stale state.
//
// The whole read-diff-write cycle holds the store lock, so two checks of
// the same worktree cannot interleave.
func (t *Tracker) Check(inv *inventory.Inventory) (*types.DriftReport, error) {
	cur := inv.Paths()
	report := &types.DriftReport{Root: inv.Root}

	err := t.store.WithLock(inv.Root, func() error {
		prev, err := t.store.Load(inv.Root)
		switch {
		case err == nil:
			report.PreviousAt = prev.CapturedAt
			diff(report, prev.Paths, cur)
		case errors.Is(err, snapshot.ErrNoSnapshot):
			report.Baseline = true
		case errors.Is(err, snapshot.ErrCorrupt):
			t.logger.Warn("snapshot unusable, recording new baseline",
				"root", inv.Root, "error", err)
			report.Baseline = true
		default:
			t.logger.Warn("snapshot load failed, recording new baseline",
				"root", inv.Root, "error", err)
			report.Baseline = true
		}

		return t.store.Save(&types.Snapshot{
			CapturedAt: t.now(),
			Root:       inv.Root,
			Paths:      cur,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("drift check: %w", err)
	}

	t.logger.Info("drift check complete",
		"root", inv.Root,
		"baseline", report.Baseline,
		"added", len(report.Added),
		"removed", len(report.Removed),
		"unchanged", report.Unchanged)

	return report, nil
}

// diff fills Added, Removed, and Unchanged from two sorted path lists.
// Every current path is either added or unchanged, every previous path
// either removed or unchanged, and nothing is both added and removed.
func diff(report *types.DriftReport, prev, cur []string) {
	prevSet := make(map[string]struct{}, len(prev))
	for _, p := range prev {
		prevSet[p] = struct{}{}
	}
	curSet := make(map[string]struct{}, len(cur))
	for _, p := range cur {
		curSet[p] = struct{}{}
	}

	for _, p := range cur {
		if _, ok := prevSet[p]; ok {
			report.Unchanged++
		} else {
			report.Added = append(report.Added, p)
		}
	}
	for _, p := range prev {
		if _, ok := curSet[p]; !ok {
			report.Removed = append(report.Removed, p)
		}
	}
	sort.Strings(report.Added)
	sort.Strings(report.Removed)
}

// Since returns the ignored paths modified strictly after the given
// instant, sorted. It reads nothing from and writes nothing to the
// snapshot store.
func (t *Tracker) Since(inv *inventory.Inventory, since time.Time) []string {
	var out []string
	for i := range inv.Files {
		if inv.Files[i].ModTime.After(since) {
			out = append(out, types.PathKey(inv.Files[i].RelPath))
		}
	}
	sort.Strings(out)
	return out
}
