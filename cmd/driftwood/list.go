package main

import (
	"context"
	"errors"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/inventory"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List ignored files in a worktree",
	Long: `List every file in the worktree that git ignores: present on disk
but neither tracked nor eligible for tracking.

An empty ignored set is a normal result, not an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// runList is the default command handler; bare driftwood lands here.
func runList(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

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

	report := buildListReport(inv, res, limitFor(cfg), topFor(cfg))
	if err := renderReport(report); err != nil {
		return err
	}

	entry := journalEntry("list", root, inv.Count(), inv.TotalBytes, time.Since(start))
	recordRun(cfg, entry)

	return nil
}

// buildListReport assembles the list report from an inventory.
func buildListReport(inv *inventory.Inventory, res *types.ScanResult, limit, top int) *output.Report {
	section := &output.ListSection{
		Total:      inv.Count(),
		TotalBytes: inv.TotalBytes,
		SizeHuman:  types.FormatSize(inv.TotalBytes),
	}

	for _, g := range inv.ByDirectory(top) {
		section.Dirs = append(section.Dirs, output.DirView{
			Dir:       g.Dir,
			Count:     g.Count,
			Bytes:     g.Bytes,
			SizeHuman: types.FormatSize(g.Bytes),
		})
	}

	sample := inv.Files
	if limit > 0 && len(sample) > limit {
		section.More = len(sample) - limit
		sample = sample[:limit]
	}
	for _, rec := range sample {
		section.Sample = append(section.Sample, output.Item{
			Path:      rec.RelPath,
			Size:      rec.Size,
			SizeHuman: types.FormatSize(rec.Size),
		})
	}

	return &output.Report{
		Op:       "list",
		Root:     inv.Root,
		Stats:    scanStats(res),
		Warnings: warningStrings(inv.Warnings),
		List:     section,
	}
}
