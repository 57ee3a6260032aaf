package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/trash"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
)

// ErrOutsideRoot marks a candidate whose path escapes the worktree root.
var ErrOutsideRoot = errors.New("candidate outside root")

// Executor deletes the candidates of a plan.
type Executor struct {
	root    string
	toTrash bool
	logger  *logging.Logger
}

// NewExecutor creates an Executor rooted at the worktree root the plan
// was computed for.
func NewExecutor(root string) *Executor {
	return &Executor{root: root, logger: logging.Get("cleanup")}
}

// UseTrash routes removals through the system trash instead of
// permanent deletion.
func (e *Executor) UseTrash(on bool) {
	e.toTrash = on
}

// Execute removes every candidate in the plan. Files go through
// os.Remove and directories through os.RemoveAll, unless UseTrash
// rerouted both to the system trash. A failure on one candidate is
// recorded and the run continues; only context cancellation stops it
// early. With dryRun set nothing is touched and the result reports
// what would have been deleted.
func (e *Executor) Execute(ctx context.Context, plan *Plan, dryRun bool) (*types.CleanupResult, error) {
	res := &types.CleanupResult{DryRun: dryRun, Trashed: e.toTrash && !dryRun}

	for _, cand := range plan.Candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		abs, err := e.resolve(cand.RelPath)
		if err != nil {
			res.Failed++
			res.FailedPaths = append(res.FailedPaths, types.ScanWarning{
				Path:  cand.RelPath,
				Error: err.Error(),
			})
			continue
		}

		if dryRun {
			res.Deleted++
			res.BytesFreed += cand.Size
			continue
		}

		if e.toTrash {
			err = trash.Move(abs)
		} else if cand.IsDir {
			err = os.RemoveAll(abs)
		} else {
			err = os.Remove(abs)
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("delete failed", "path", cand.RelPath, "error", err)
			res.Failed++
			res.FailedPaths = append(res.FailedPaths, types.ScanWarning{
				Path:  cand.RelPath,
				Error: err.Error(),
			})
			continue
		}

		res.Deleted++
		res.BytesFreed += cand.Size
		res.RemovedPaths = append(res.RemovedPaths, cand.RelPath)
	}

	if !dryRun {
		e.logger.Info("cleanup executed",
			"root", e.root,
			"deleted", res.Deleted,
			"failed", res.Failed,
			"bytes", res.BytesFreed,
			"trash", e.toTrash)
	}
	return res, nil
}

// resolve joins a candidate path onto the root and rejects anything that
// would land outside it.
func (e *Executor) resolve(rel string) (string, error) {
	abs := filepath.Join(e.root, filepath.FromSlash(rel))
	back, err := filepath.Rel(e.root, abs)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	return abs, nil
}
