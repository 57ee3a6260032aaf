// Package inventory computes the ignored set of a worktree: every file
// the scan found that git neither tracks nor considers eligible for
// tracking. The computation is a single subtraction over hash sets, so
// its cost grows linearly with the number of scanned paths and never
// with the number of git queries.
package inventory

import (
	"path"
	"sort"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Inventory is the result of subtracting git's knowledge from a scan.
type Inventory struct {
	// Root is the absolute worktree root.
	Root string

	// Files holds the ignored files.
	Files []types.PathRecord

	// Dirs holds the ignored directories: directories containing no
	// tracked or eligible file anywhere beneath them. Empty directories
	// are always here, since git cannot represent them.
	Dirs []types.PathRecord

	// TrackedCount is the number of scanned files git tracks.
	TrackedCount int

	// EligibleCount is the number of scanned files git would track.
	EligibleCount int

	// TotalBytes is the byte total of the ignored files.
	TotalBytes int64

	// Warnings carries the scan warnings through to reporting.
	Warnings []types.ScanWarning

	// Elapsed is the scan duration.
	Elapsed time.Duration
}

// Count returns the number of ignored files.
func (inv *Inventory) Count() int {
	return len(inv.Files)
}

// Paths returns the normalized relative paths of the ignored files,
// sorted lexicographically.
func (inv *Inventory) Paths() []string {
	out := make([]string, len(inv.Files))
	for i, rec := range inv.Files {
		out[i] = types.PathKey(rec.RelPath)
	}
	sort.Strings(out)
	return out
}

// DirGroup aggregates the ignored files contained in one directory,
// directly or transitively.
type DirGroup struct {
	// Dir is the directory path relative to the root; "." is the root.
	Dir string `json:"dir"`

	// Count is the number of ignored files at or beneath the directory.
	Count int `json:"count"`

	// Bytes is their total size.
	Bytes int64 `json:"bytes"`
}

// ByDirectory returns the top directories by contained ignored files,
// largest count first. Ties break lexicographically for stable output.
func (inv *Inventory) ByDirectory(top int) []DirGroup {
	counts := make(map[string]*DirGroup)
	for i := range inv.Files {
		dir := path.Dir(inv.Files[i].RelPath)
		g, ok := counts[dir]
		if !ok {
			g = &DirGroup{Dir: dir}
			counts[dir] = g
		}
		g.Count++
		g.Bytes += inv.Files[i].Size
	}

	groups := make([]DirGroup, 0, len(counts))
	for _, g := range counts {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Dir < groups[j].Dir
	})

	if top > 0 && len(groups) > top {
		groups = groups[:top]
	}
	return groups
}

// Computer derives inventories from scan results and git sets.
type Computer struct {
	logger *logging.Logger
}

// NewComputer creates a Computer.
func NewComputer() *Computer {
	return &Computer{logger: logging.Get("inventory")}
}

// Compute partitions the scanned files into tracked, eligible, and
// ignored, and returns the ignored remainder. A scanned file belongs to
// the ignored set exactly when neither git set contains it; paths git
// lists but the scan never saw (deleted mid-run) are dropped silently.
//
// The partition is over files. A directory counts as ignored only when
// no tracked or eligible file lives at or beneath it.
func (c *Computer) Compute(res *types.ScanResult, tracked, eligible *types.PathSet) *Inventory {
	inv := &Inventory{
		Root:     res.Root,
		Warnings: res.Warnings,
		Elapsed:  res.Elapsed,
	}

	// Every directory holding a tracked or eligible file, at any depth,
	// is "covered" and therefore not ignored.
	covered := types.NewPathSet()
	tracked.Each(true, covered.Add)
	eligible.Each(true, covered.Add)

	for i := range res.Records {
		rec := res.Records[i]
		key := types.PathKey(rec.RelPath)

		if rec.IsDir {
			if !covered.Has(key) {
				inv.Dirs = append(inv.Dirs, rec)
			}
			continue
		}

		switch {
		case tracked.Has(key):
			inv.TrackedCount++
		case eligible.Has(key):
			inv.EligibleCount++
		default:
			inv.Files = append(inv.Files, rec)
			inv.TotalBytes += rec.Size
		}
	}

	sort.Slice(inv.Files, func(i, j int) bool {
		return inv.Files[i].RelPath < inv.Files[j].RelPath
	})
	sort.Slice(inv.Dirs, func(i, j int) bool {
		return inv.Dirs[i].RelPath < inv.Dirs[j].RelPath
	})

	c.logger.Info("inventory computed",
		"root", res.Root,
		"ignored", len(inv.Files),
		"tracked", inv.TrackedCount,
		"eligible", inv.EligibleCount,
		"bytes", inv.TotalBytes)

	return inv
}
