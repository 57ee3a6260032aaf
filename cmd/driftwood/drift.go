package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/jamesainslie/driftwood/pkg/driftwood/drift"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/snapshot"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/cobra"
)

var driftCmd = &cobra.Command{
	Use:   "drift [path]",
	Short: "Compare the ignored set against the previous run",
	Long: `Drift records a snapshot of the ignored set on every run and reports
what appeared and what disappeared since the last one.

The first run for a worktree establishes a baseline. A corrupt or
unreadable snapshot is discarded and the current state becomes the
new baseline; it never fails the run.

With --since, drift instead lists ignored files modified after the
given time and leaves the snapshot untouched. With --watch, drift
re-checks whenever the worktree changes, until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrift,
}

var (
	driftSince string
	driftWatch bool
)

func init() {
	driftCmd.Flags().StringVar(&driftSince, "since", "", `only list files modified after this time (RFC3339, unix seconds, or an age like "36h")`)
	driftCmd.Flags().BoolVarP(&driftWatch, "watch", "w", false, "keep watching and re-check on changes")
	rootCmd.AddCommand(driftCmd)
}

// snapshotDir returns the directory drift snapshots live in.
func snapshotDir(cfg *config.Config) string {
	if cfg.Snapshots.Dir != "" {
		return cfg.Snapshots.Dir
	}
	return config.DefaultSnapshotDir()
}

// runDrift is the drift command handler.
func runDrift(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

	ctx, cancel := signalContext()
	defer cancel()

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	root, err := resolveWorktree(ctx, arg)
	if err != nil {
		return err
	}

	if driftSince != "" {
		return runDriftSince(ctx, root, cfg)
	}
	if driftWatch {
		return runDriftWatch(ctx, root, cfg)
	}

	start := time.Now()

	inv, res, err := takeInventory(ctx, root, cfg)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return err
	}

	tracker := drift.NewTracker(snapshot.NewStore(snapshotDir(cfg)))
	report, err := tracker.Check(inv)
	if err != nil {
		return err
	}

	out := buildDriftReport(report, res, inv.Warnings)
	if err := renderReport(out); err != nil {
		return err
	}

	changes := len(report.Added) + len(report.Removed)
	entry := journalEntry("drift", root, changes, inv.TotalBytes, time.Since(start))
	recordRun(cfg, entry)

	return nil
}

// runDriftSince lists ignored files modified after a threshold. It is a
// pure query: no snapshot is read or written.
func runDriftSince(ctx context.Context, root string, cfg *config.Config) error {
	since, err := parseSince(driftSince, time.Now())
	if err != nil {
		return err
	}

	start := time.Now()

	inv, res, err := takeInventory(ctx, root, cfg)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return err
	}

	tracker := drift.NewTracker(snapshot.NewStore(snapshotDir(cfg)))
	paths := tracker.Since(inv, since)

	out := &output.Report{
		Op:       "drift",
		Root:     root,
		Stats:    scanStats(res),
		Warnings: warningStrings(inv.Warnings),
		Since: &output.SinceSection{
			Since: since,
			Paths: paths,
		},
	}
	if err := renderReport(out); err != nil {
		return err
	}

	entry := journalEntry("drift", root, len(paths), inv.TotalBytes, time.Since(start))
	recordRun(cfg, entry)

	return nil
}

// runDriftWatch re-checks drift whenever the worktree changes. Each
// cycle rebuilds the watch set from the latest scan, so directories
// created since the previous cycle are covered by the next one.
func runDriftWatch(ctx context.Context, root string, cfg *config.Config) error {
	tracker := drift.NewTracker(snapshot.NewStore(snapshotDir(cfg)))

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = time.Duration(config.DefaultDebounceMS) * time.Millisecond
	}

	printInfo("Watching %s (Ctrl-C to stop)", root)

	for {
		start := time.Now()

		inv, res, err := takeInventory(ctx, root, cfg)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}

		report, err := tracker.Check(inv)
		if err != nil {
			return err
		}

		out := buildDriftReport(report, res, inv.Warnings)
		if err := renderReport(out); err != nil {
			return err
		}

		changes := len(report.Added) + len(report.Removed)
		entry := journalEntry("drift", root, changes, inv.TotalBytes, time.Since(start))
		recordRun(cfg, entry)

		if !waitForChange(ctx, root, res, debounce) {
			return nil
		}
	}
}

// waitForChange blocks until the worktree changes and the change burst
// settles, or the context is cancelled. It returns false when watching
// should stop.
func waitForChange(ctx context.Context, root string, res *types.ScanResult, debounce time.Duration) bool {
	logger := logging.Get("watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		printError("File watching unavailable: %v", err)
		return false
	}
	defer func() { _ = w.Close() }()

	// Watch every directory the scan saw. Adds fail for directories
	// deleted since the scan; the next cycle drops them.
	if err := w.Add(root); err != nil {
		printError("Cannot watch %s: %v", root, err)
		return false
	}
	for _, rec := range res.Records {
		if rec.IsDir {
			_ = w.Add(filepath.Join(root, filepath.FromSlash(rec.RelPath)))
		}
	}

	// Block until something outside .git changes.
	for {
		relevant := false
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-w.Events:
			if !ok {
				return false
			}
			relevant = !insideGitDir(ev.Name)
		case werr, ok := <-w.Errors:
			if !ok {
				return false
			}
			logger.Warn("watch error", "error", werr)
		}
		if relevant {
			break
		}
	}

	// Absorb the burst: wait for a quiet period before re-checking.
	timer := time.NewTimer(debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-w.Events:
			if !ok {
				return true
			}
			if !insideGitDir(ev.Name) {
				timer.Reset(debounce)
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return true
			}
			logger.Warn("watch error", "error", werr)
		case <-timer.C:
			return true
		}
	}
}

// insideGitDir reports whether a path is git metadata. Index and ref
// churn inside .git must not retrigger checks.
func insideGitDir(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".git" {
			return true
		}
	}
	return false
}

// parseSince accepts an RFC3339 timestamp, unix seconds, or an age
// measured back from now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time, unix seconds, or age", s)
}

// buildDriftReport assembles the drift report.
func buildDriftReport(report *types.DriftReport, res *types.ScanResult, warnings []types.ScanWarning) *output.Report {
	return &output.Report{
		Op:       "drift",
		Root:     report.Root,
		Stats:    scanStats(res),
		Warnings: warningStrings(warnings),
		Drift: &output.DriftSection{
			Baseline:   report.Baseline,
			PreviousAt: report.PreviousAt,
			Added:      report.Added,
			Removed:    report.Removed,
			Unchanged:  report.Unchanged,
		},
	}
}
