package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/cleanup"
	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/manifest"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Delete ignored files matching the cleanup policy",
	Long: `Clean deletes the paths a plan would select. Deletion asks for
confirmation unless --force is given; --dry-run walks the full plan
and reports what would go without touching anything. --trash moves
entries to the system trash instead of deleting them outright.

Failures on individual paths do not stop the run. Every failed path
is reported at the end.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

var (
	cleanDryRun bool
	cleanForce  bool
	cleanTrash  bool
)

func init() {
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "d", false, "report what would be deleted without deleting")
	cleanCmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "skip the confirmation prompt")
	cleanCmd.Flags().BoolVar(&cleanTrash, "trash", false, "move to system trash instead of deleting")
	rootCmd.AddCommand(cleanCmd)
}

// runClean is the clean command handler.
func runClean(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

	policy, err := buildPolicy(cfg)
	if err != nil {
		return err
	}
	table, err := buildTable(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	start := time.Now()

	root, err := resolveWorktree(ctx, arg)
	if err != nil {
		return err
	}

	inv, res, err := takeInventory(ctx, root, cfg)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			printInfo("Scan cancelled")
			return nil
		}
		return err
	}

	plan := cleanup.NewPlanner(policy, table).Plan(inv)

	if plan.Count() == 0 {
		printInfo("Nothing to clean under the %s policy.", policy.Name())
		return nil
	}

	if !cleanDryRun && !cleanForce {
		if !confirmDeletion(plan.Count(), plan.TotalBytes) {
			printInfo("Aborted.")
			return nil
		}
	}

	executor := cleanup.NewExecutor(root)
	executor.UseTrash(cleanTrash)
	result, err := executor.Execute(ctx, plan, cleanDryRun)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Cleanup interrupted after %d deletions", result.Deleted)
		} else {
			return err
		}
	}

	report := buildCleanReport(plan, result, res, inv.Warnings, root)
	if err := renderReport(report); err != nil {
		return err
	}

	entry := journalEntry("clean", root, plan.Count(), result.BytesFreed, time.Since(start))
	entry.Policy = policy.Name()
	entry.Deleted = result.Deleted
	entry.Failed = result.Failed
	entry.Manifest = writeManifest(cfg, root, plan, result)
	recordRun(cfg, entry)

	return nil
}

// writeManifest records the removed paths as a deletion manifest and
// returns the manifest ID. Manifest failures only warn; the deletions
// already happened and the run must still report them.
func writeManifest(cfg *config.Config, root string, plan *cleanup.Plan, result *types.CleanupResult) string {
	if !cfg.Manifests.Enabled || result.DryRun || len(result.RemovedPaths) == 0 {
		return ""
	}

	byPath := make(map[string]types.CleanupCandidate, len(plan.Candidates))
	for _, cand := range plan.Candidates {
		byPath[cand.RelPath] = cand
	}

	files := make([]manifest.FileRecord, 0, len(result.RemovedPaths))
	for _, rel := range result.RemovedPaths {
		cand := byPath[rel]
		files = append(files, manifest.FileRecord{
			Path:     rel,
			Size:     cand.Size,
			IsDir:    cand.IsDir,
			Category: string(cand.Category),
		})
	}

	m, err := manifest.New(manifestDir(cfg))
	if err != nil {
		logging.Get("cli").Warn("manifest unavailable", "error", err)
		return ""
	}
	entry, err := m.Record(root, plan.Policy, result.Trashed, files)
	if err != nil {
		logging.Get("cli").Warn("manifest write failed", "error", err)
		return ""
	}

	printVerbose("Deletion manifest: %s", entry.ID)
	return entry.ID
}

// confirmDeletion prompts on stdin before a destructive run.
// Anything other than an explicit yes declines.
func confirmDeletion(count int, bytes int64) bool {
	fmt.Printf("Delete %d entries (%s)? [y/N]: ", count, types.FormatSize(bytes))

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// buildCleanReport assembles the post-execution report, including the
// filesystem free-space probe when the platform supports it.
func buildCleanReport(plan *cleanup.Plan, result *types.CleanupResult, res *types.ScanResult, warnings []types.ScanWarning, root string) *output.Report {
	section := &output.CleanSection{
		Policy:     plan.Policy,
		DryRun:     result.DryRun,
		Trashed:    result.Trashed,
		Deleted:    result.Deleted,
		Failed:     result.Failed,
		BytesFreed: result.BytesFreed,
		FreedHuman: types.FormatSize(result.BytesFreed),
	}

	for _, f := range result.FailedPaths {
		section.FailedPaths = append(section.FailedPaths, output.Failure{
			Path:   f.Path,
			Reason: f.Error,
		})
	}

	if free, err := cleanup.FreeSpace(root); err == nil {
		section.FreeAfter = types.FormatSize(int64(free))
	}

	return &output.Report{
		Op:       "clean",
		Root:     root,
		Stats:    scanStats(res),
		Warnings: warningStrings(warnings),
		Clean:    section,
	}
}
