package main

import (
	"context"
	"errors"
	"time"

	"github.com/jamesainslie/driftwood/cmd/driftwood/tui"
	"github.com/jamesainslie/driftwood/pkg/driftwood/classify"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [path]",
	Short: "Break the ignored set into categories",
	Long: `Classify every ignored file into a category: build artifacts,
dependency caches, logs, editor metadata, and so on.

Categories are matched in order and the first match wins, so a path
never lands in more than one bucket. Files nothing matches fall into
the "other" category.

Use --interactive to browse the buckets in a TUI instead of printing
a report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

var classifyInteractive bool

func init() {
	classifyCmd.Flags().BoolVarP(&classifyInteractive, "interactive", "i", false, "browse categories in a TUI")
	rootCmd.AddCommand(classifyCmd)
}

// runClassify is the classify command handler.
func runClassify(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

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

	result := classify.New(table).Classify(inv)

	if classifyInteractive {
		return tui.Run(tui.Options{Result: result, Stats: res})
	}

	report := buildClassifyReport(result, res, inv.Warnings, limitFor(cfg))
	if err := renderReport(report); err != nil {
		return err
	}

	entry := journalEntry("classify", root, result.Total, result.TotalBytes, time.Since(start))
	recordRun(cfg, entry)

	return nil
}

// buildClassifyReport assembles the classify report. Every configured
// category appears, including empty ones; formatters decide what to
// hide.
func buildClassifyReport(result *classify.Result, res *types.ScanResult, warnings []types.ScanWarning, limit int) *output.Report {
	section := &output.ClassifySection{
		Total:      result.Total,
		TotalBytes: result.TotalBytes,
		SizeHuman:  types.FormatSize(result.TotalBytes),
	}

	for _, b := range result.Buckets {
		view := output.BucketView{
			Category:  string(b.Category),
			Count:     b.Count,
			Bytes:     b.Bytes,
			SizeHuman: types.FormatSize(b.Bytes),
		}
		members := b.Members
		if limit > 0 && len(members) > limit {
			view.More = len(members) - limit
			members = members[:limit]
		}
		for _, rec := range members {
			view.Sample = append(view.Sample, rec.RelPath)
		}
		section.Buckets = append(section.Buckets, view)
	}

	return &output.Report{
		Op:       "classify",
		Root:     result.Root,
		Stats:    scanStats(res),
		Warnings: warningStrings(warnings),
		Classify: section,
	}
}
