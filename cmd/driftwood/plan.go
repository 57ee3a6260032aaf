package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/cleanup"
	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var planCmd = &cobra.Command{
	Use:   "plan [path]",
	Short: "Preview a cleanup without deleting anything",
	Long: `Plan shows exactly what a cleanup would delete under the selected
policy, with per-category totals. Nothing is touched.

The safe policy only matches paths that are always regenerable. The
aggressive policy extends it with caches and artifacts that are
expensive but possible to rebuild. Everything the safe policy would
delete, the aggressive policy would delete too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

// buildPolicy compiles the selected cleanup policy from configuration.
func buildPolicy(cfg *config.Config) (*cleanup.Policy, error) {
	name := viper.GetString("policy")
	if name == "" {
		name = config.DefaultPolicy
	}

	patterns, err := cfg.PolicyPatterns(name)
	if err != nil {
		return nil, err
	}

	policy, err := cleanup.NewPolicy(name, patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid policy configuration: %w", err)
	}
	return policy, nil
}

// runPlan is the plan command handler.
func runPlan(_ *cobra.Command, args []string) error {
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

	report := buildPlanReport(plan, res, inv.Warnings, limitFor(cfg))
	if err := renderReport(report); err != nil {
		return err
	}

	entry := journalEntry("plan", root, plan.Count(), plan.TotalBytes, time.Since(start))
	entry.Policy = policy.Name()
	recordRun(cfg, entry)

	return nil
}

// buildPlanReport assembles the plan report.
func buildPlanReport(plan *cleanup.Plan, res *types.ScanResult, warnings []types.ScanWarning, limit int) *output.Report {
	section := &output.PlanSection{
		Policy:     plan.Policy,
		Total:      plan.Count(),
		TotalBytes: plan.TotalBytes,
		SizeHuman:  types.FormatSize(plan.TotalBytes),
	}

	candidates := plan.Candidates
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	for _, c := range candidates {
		section.Candidates = append(section.Candidates, output.CandidateView{
			Path:      c.RelPath,
			IsDir:     c.IsDir,
			Size:      c.Size,
			SizeHuman: types.FormatSize(c.Size),
			Category:  string(c.Category),
		})
	}

	for _, t := range plan.ByCategory {
		section.ByCategory = append(section.ByCategory, output.CategoryView{
			Category:  string(t.Category),
			Count:     t.Count,
			Bytes:     t.Bytes,
			SizeHuman: types.FormatSize(t.Bytes),
		})
	}

	return &output.Report{
		Op:       "plan",
		Root:     plan.Root,
		Stats:    scanStats(res),
		Warnings: warningStrings(warnings),
		Plan:     section,
	}
}
