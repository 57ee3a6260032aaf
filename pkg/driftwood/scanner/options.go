// Package scanner provides parallel worktree traversal for driftwood.
// It walks a root directory with fastwalk and emits a record for every
// file and directory found, always excluding git metadata directories.
package scanner

import (
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// Options configures the scanner behavior.
type Options struct {
	// Root is the worktree root to scan. It must exist and be a directory.
	Root string

	// Exclude contains glob patterns for paths to skip during scanning,
	// in addition to the built-in git metadata exclusion. Patterns are
	// matched against the root-relative path and the basename.
	Exclude []string

	// Workers is the walk pool size. Zero or negative lets fastwalk
	// pick its own default.
	Workers int

	// OnProgress is called periodically with scan progress updates.
	// It must be safe to call from multiple goroutines.
	OnProgress func(types.ScanProgress)
}

// Validate applies defaults for unset options.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = "."
	}
	return nil
}
