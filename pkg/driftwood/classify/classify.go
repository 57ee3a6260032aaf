// Package classify sorts ignored files into categories using an ordered
// pattern table. Evaluation is top to bottom, first match wins, and the
// final category is a fallback with no patterns, so every file lands in
// exactly one bucket.
package classify

import (
	"fmt"

	"github.com/jamesainslie/driftwood/pkg/driftwood/inventory"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Spec pairs a category name with its raw patterns, in evaluation order.
// It keeps this package independent of where the table comes from.
type Spec struct {
	Name     string
	Patterns []string
}

type rule struct {
	category types.Category
	patterns []Pattern
}

// Table is a compiled, ordered classification table.
type Table struct {
	rules []rule
}

// NewTable compiles the specs into a table, preserving order. The
// fallback category is appended when the specs do not already end with a
// pattern-free entry.
func NewTable(specs []Spec) (*Table, error) {
	t := &Table{rules: make([]rule, 0, len(specs)+1)}
	for _, spec := range specs {
		compiled, err := CompileAll(spec.Patterns)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", spec.Name, err)
		}
		t.rules = append(t.rules, rule{
			category: types.Category(spec.Name),
			patterns: compiled,
		})
	}

	last := len(t.rules) - 1
	if last < 0 || len(t.rules[last].patterns) > 0 {
		t.rules = append(t.rules, rule{category: types.CategoryOther})
	}
	return t, nil
}

// Categories returns the table's category names in evaluation order.
func (t *Table) Categories() []types.Category {
	out := make([]types.Category, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.category
	}
	return out
}

// Categorize returns the first category whose patterns match the path.
// A rule with no patterns matches everything, which is what makes the
// trailing fallback total.
func (t *Table) Categorize(rel string, isDir bool) types.Category {
	for _, r := range t.rules {
		if len(r.patterns) == 0 {
			return r.category
		}
		for _, p := range r.patterns {
			if p.Match(rel, isDir) {
				return r.category
			}
		}
	}
	return types.CategoryOther
}

// Bucket is one category's slice of the ignored set.
type Bucket struct {
	Category types.Category     `json:"category"`
	Count    int                `json:"count"`
	Bytes    int64              `json:"bytes"`
	Members  []types.PathRecord `json:"members,omitempty"`
}

// Result is a classification of an inventory: one bucket per table
// category, in table order, empty buckets included.
type Result struct {
	Root       string   `json:"root"`
	Buckets    []Bucket `json:"buckets"`
	Total      int      `json:"total"`
	TotalBytes int64    `json:"total_bytes"`
}

// Bucket returns the bucket for a category, or nil.
func (r *Result) Bucket(cat types.Category) *Bucket {
	for i := range r.Buckets {
		if r.Buckets[i].Category == cat {
			return &r.Buckets[i]
		}
	}
	return nil
}

// Classifier applies a table to inventories.
type Classifier struct {
	table  *Table
	logger *logging.Logger
}

// New creates a Classifier for the table.
func New(table *Table) *Classifier {
	return &Classifier{table: table, logger: logging.Get("classify")}
}

// Classify buckets every ignored file. Counts across buckets always sum
// to the inventory count.
func (c *Classifier) Classify(inv *inventory.Inventory) *Result {
	index := make(map[types.Category]int, len(c.table.rules))
	res := &Result{Root: inv.Root}
	for _, r := range c.table.rules {
		index[r.category] = len(res.Buckets)
		res.Buckets = append(res.Buckets, Bucket{Category: r.category})
	}

	for i := range inv.Files {
		rec := inv.Files[i]
		cat := c.table.Categorize(rec.RelPath, false)
		b := &res.Buckets[index[cat]]
		b.Count++
		b.Bytes += rec.Size
		b.Members = append(b.Members, rec)
		res.Total++
		res.TotalBytes += rec.Size
	}

	c.logger.Debug("classified inventory", "root", inv.Root, "files", res.Total)
	return res
}
