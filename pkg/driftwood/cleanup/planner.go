package cleanup

import (
	"sort"
	"strings"

	"github.com/jamesainslie/driftwood/pkg/driftwood/classify"
	"github.com/jamesainslie/driftwood/pkg/driftwood/inventory"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// CategoryTotal aggregates plan candidates for one category.
type CategoryTotal struct {
	Category types.Category `json:"category"`
	Count    int            `json:"count"`
	Bytes    int64          `json:"bytes"`
}

// Plan lists everything a cleanup run would delete. It is a pure value:
// producing one touches nothing on disk.
type Plan struct {
	// Root is the absolute worktree root the plan applies to.
	Root string `json:"root"`

	// Policy is the name of the policy that selected the candidates.
	Policy string `json:"policy"`

	// Candidates are the entries to delete, sorted by path. A directory
	// candidate subsumes everything beneath it.
	Candidates []types.CleanupCandidate `json:"candidates"`

	// TotalBytes is the reclaimable total.
	TotalBytes int64 `json:"total_bytes"`

	// ByCategory breaks the candidates down per category, in table order.
	ByCategory []CategoryTotal `json:"by_category,omitempty"`
}

// Count returns the number of candidates.
func (p *Plan) Count() int { return len(p.Candidates) }

// Planner selects cleanup candidates from inventories.
type Planner struct {
	policy *Policy
	table  *classify.Table
	logger *logging.Logger
}

// NewPlanner creates a Planner. The table categorizes candidates for the
// per-category breakdown.
func NewPlanner(policy *Policy, table *classify.Table) *Planner {
	return &Planner{policy: policy, table: table, logger: logging.Get("cleanup")}
}

// Plan selects the ignored entries matching the policy. Ignored
// directories that match become single recursive candidates and fold
// away both their matching subdirectories and every file beneath them.
// Deleting such a directory is safe precisely because it is ignored:
// nothing tracked or eligible lives under it.
func (pl *Planner) Plan(inv *inventory.Inventory) *Plan {
	plan := &Plan{Root: inv.Root, Policy: pl.policy.Name()}

	// Top-most matching directories. Sorting first makes ancestors
	// appear before their descendants, so one prefix check against the
	// kept set folds nested matches.
	var dirKeys []string
	dirRecords := make(map[string]types.PathRecord)
	for _, rec := range inv.Dirs {
		key := types.PathKey(rec.RelPath)
		if pl.policy.Matches(rec.RelPath, true) {
			dirKeys = append(dirKeys, key)
			dirRecords[key] = rec
		}
	}
	sort.Strings(dirKeys)

	kept := make([]string, 0, len(dirKeys))
	keptSet := make(map[string]*types.CleanupCandidate, len(dirKeys))
	for _, key := range dirKeys {
		if underAny(key, kept) {
			continue
		}
		kept = append(kept, key)
		rec := dirRecords[key]
		keptSet[key] = &types.CleanupCandidate{
			RelPath:  rec.RelPath,
			IsDir:    true,
			Category: pl.table.Categorize(rec.RelPath, true),
		}
	}

	// Files: folded into a kept directory when beneath one, otherwise
	// candidates in their own right when the policy matches them.
	var fileCandidates []types.CleanupCandidate
	for i := range inv.Files {
		rec := inv.Files[i]
		key := types.PathKey(rec.RelPath)
		if owner := owningDir(key, keptSet); owner != nil {
			owner.Size += rec.Size
			continue
		}
		if !pl.policy.Matches(rec.RelPath, false) {
			continue
		}
		fileCandidates = append(fileCandidates, types.CleanupCandidate{
			RelPath:  rec.RelPath,
			Size:     rec.Size,
			Category: pl.table.Categorize(rec.RelPath, false),
		})
	}

	for _, key := range kept {
		plan.Candidates = append(plan.Candidates, *keptSet[key])
	}
	plan.Candidates = append(plan.Candidates, fileCandidates...)
	sort.Slice(plan.Candidates, func(i, j int) bool {
		return plan.Candidates[i].RelPath < plan.Candidates[j].RelPath
	})

	totals := make(map[types.Category]*CategoryTotal)
	for _, cand := range plan.Candidates {
		plan.TotalBytes += cand.Size
		ct, ok := totals[cand.Category]
		if !ok {
			ct = &CategoryTotal{Category: cand.Category}
			totals[cand.Category] = ct
		}
		ct.Count++
		ct.Bytes += cand.Size
	}
	for _, cat := range pl.table.Categories() {
		if ct, ok := totals[cat]; ok {
			plan.ByCategory = append(plan.ByCategory, *ct)
		}
	}

	pl.logger.Info("cleanup planned",
		"root", inv.Root,
		"policy", pl.policy.Name(),
		"candidates", plan.Count(),
		"bytes", plan.TotalBytes)

	return plan
}

func underAny(key string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(key, d+"/") {
			return true
		}
	}
	return false
}

func owningDir(key string, kept map[string]*types.CleanupCandidate) *types.CleanupCandidate {
	for i := len(key) - 1; i > 0; i-- {
		if key[i] != '/' {
			continue
		}
		if cand, ok := kept[key[:i]]; ok {
			return cand
		}
	}
	return nil
}
