// Package gitindex answers membership questions about a git worktree.
// It shells out to git for whole-set queries (all tracked paths, all
// untracked-but-eligible paths) instead of probing files one at a time,
// so the cost of a query is independent of how it is consumed.
package gitindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// ErrNotWorktree is returned when a path is not inside a git worktree,
// or when git itself cannot be invoked.
var ErrNotWorktree = errors.New("not inside a git worktree")

// Runner executes a command in a directory and returns its stdout.
// The production implementation shells out; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// Oracle performs git membership queries for a worktree.
type Oracle struct {
	runner Runner
	logger *logging.Logger
}

// New creates an Oracle using the given runner.
// Passing nil uses the default exec-based runner.
func New(runner Runner) *Oracle {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Oracle{
		runner: runner,
		logger: logging.Get("gitindex"),
	}
}

// Worktree resolves the absolute worktree root containing path.
// It fails with ErrNotWorktree when the path is outside any repository
// or git is not available; that failure is fatal for the whole run.
func (o *Oracle) Worktree(ctx context.Context, path string) (string, error) {
	out, err := o.runner.Run(ctx, path, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotWorktree, path, err)
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", fmt.Errorf("%w: %s", ErrNotWorktree, path)
	}

	o.logger.Debug("resolved worktree", "path", path, "root", root)
	return root, nil
}

// Tracked returns the set of all paths tracked in the index.
func (o *Oracle) Tracked(ctx context.Context, root string) (*types.PathSet, error) {
	out, err := o.runner.Run(ctx, root, "git", "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("listing tracked paths: %w", err)
	}
	set := parseZeroList(out)
	o.logger.Debug("tracked set loaded", "root", root, "count", set.Len())
	return set, nil
}

// Untracked returns the set of untracked paths that are eligible for
// tracking, i.e. not excluded by any ignore rule.
func (o *Oracle) Untracked(ctx context.Context, root string) (*types.PathSet, error) {
	out, err := o.runner.Run(ctx, root, "git", "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, fmt.Errorf("listing untracked paths: %w", err)
	}
	set := parseZeroList(out)
	o.logger.Debug("untracked-eligible set loaded", "root", root, "count", set.Len())
	return set, nil
}

// parseZeroList splits NUL-terminated git output into a PathSet.
// NUL termination is safe for any filename git can store.
func parseZeroList(out []byte) *types.PathSet {
	set := types.NewPathSet()
	for _, entry := range bytes.Split(out, []byte{0}) {
		if len(entry) == 0 {
			continue
		}
		set.Add(string(entry))
	}
	return set
}
