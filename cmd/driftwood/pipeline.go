package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/classify"
	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/jamesainslie/driftwood/pkg/driftwood/gitindex"
	"github.com/jamesainslie/driftwood/pkg/driftwood/inventory"
	"github.com/jamesainslie/driftwood/pkg/driftwood/journal"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/scanner"
	"github.com/jamesainslie/driftwood/pkg/driftwood/tuner"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/viper"
)

// loadConfig loads the typed configuration, honoring --config. A broken
// config file degrades to defaults so read-only commands keep working.
func loadConfig() *config.Config {
	cfg, err := config.LoadFrom(cfgFile)
	if err != nil {
		printError("Failed to load configuration, using defaults: %v", err)
		return config.Defaults()
	}
	return cfg
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping...")
		cancel()
	}()

	return ctx, cancel
}

// resolveWorktree expands the path argument and asks git for the
// enclosing worktree root. An empty argument means the current
// directory.
func resolveWorktree(ctx context.Context, arg string) (string, error) {
	scanPath := "."
	if arg != "" {
		scanPath = arg
	}

	// Expand ~ in path
	expandedPath, err := config.ExpandPath(scanPath)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	absPath, err := filepath.Abs(expandedPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", absPath)
		}
		return "", fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", absPath)
	}

	oracle := gitindex.New(nil)
	return oracle.Worktree(ctx, absPath)
}

// workerPool sizes the scan pool from detected system resources,
// honoring the --workers override.
func workerPool(cfg *config.Config) int {
	override := viper.GetInt("workers")
	if override <= 0 {
		override = cfg.Workers
	}

	resources, err := tuner.Detect()
	if err != nil {
		printVerbose("Resource detection failed, using defaults: %v", err)
		resources = tuner.SystemResources{
			CPUCores:     4,
			TotalRAM:     8 << 30,
			AvailableRAM: 4 << 30,
		}
	}

	pool := tuner.WorkersWithOverride(resources, override)
	printVerbose("System: %d CPUs, %s RAM, %s available",
		resources.CPUCores,
		types.FormatSize(resources.TotalRAM),
		types.FormatSize(resources.AvailableRAM))
	printVerbose("Scan pool: %d workers", pool)
	return pool
}

// takeInventory scans the worktree and subtracts git's knowledge from
// the result. The returned inventory holds exactly the paths git
// ignores; the scan result rides along for progress statistics and the
// directory list.
func takeInventory(ctx context.Context, root string, cfg *config.Config) (*inventory.Inventory, *types.ScanResult, error) {
	exclude := viper.GetStringSlice("exclude")
	if len(exclude) == 0 {
		exclude = cfg.Exclude
	}

	opts := scanner.Options{
		Root:    root,
		Exclude: exclude,
		Workers: workerPool(cfg),
	}
	if getVerbose() && !getQuiet() {
		opts.OnProgress = func(p types.ScanProgress) {
			fmt.Fprintf(os.Stderr, "\r[DEBUG] Scanning: %d dirs, %d files", p.DirsScanned, p.FilesScanned)
		}
	}

	s := scanner.New(opts)
	res, err := s.Scan(ctx)
	if opts.OnProgress != nil {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", err)
	}

	oracle := gitindex.New(nil)
	tracked, err := oracle.Tracked(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	eligible, err := oracle.Untracked(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	inv := inventory.NewComputer().Compute(res, tracked, eligible)
	return inv, res, nil
}

// buildTable compiles the classification table from configuration.
func buildTable(cfg *config.Config) (*classify.Table, error) {
	specs := make([]classify.Spec, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		specs = append(specs, classify.Spec{Name: c.Name, Patterns: c.Patterns})
	}
	table, err := classify.NewTable(specs)
	if err != nil {
		return nil, fmt.Errorf("invalid category configuration: %w", err)
	}
	return table, nil
}

// limitFor returns the effective per-section path limit.
func limitFor(cfg *config.Config) int {
	if n := viper.GetInt("limit"); n > 0 {
		return n
	}
	if cfg.Limit > 0 {
		return cfg.Limit
	}
	return config.DefaultLimit
}

// topFor returns the effective directory-breakdown size.
func topFor(cfg *config.Config) int {
	if n := viper.GetInt("top"); n > 0 {
		return n
	}
	if cfg.Top > 0 {
		return cfg.Top
	}
	return config.DefaultTop
}

// scanStats converts a scan result into the report form.
func scanStats(res *types.ScanResult) output.ScanStats {
	return output.ScanStats{
		FilesScanned: res.FilesScanned,
		DirsScanned:  res.DirsScanned,
		Elapsed:      output.FormatDuration(res.Elapsed),
	}
}

// warningStrings flattens scan warnings for the report.
func warningStrings(warnings []types.ScanWarning) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, fmt.Sprintf("%s: %s", w.Path, w.Error))
	}
	return out
}

// renderReport formats a report with the configured formatter and
// writes it to stdout.
func renderReport(r *output.Report) error {
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = config.DefaultOutput
	}

	var formatter output.Formatter
	var err error
	if outFormat == "template" {
		tmplStr := viper.GetString("template")
		if tmplStr == "" {
			return fmt.Errorf("--template is required when using -o template")
		}
		formatter = output.NewTemplateFormatter(tmplStr)
	} else {
		formatter, err = output.Get(outFormat)
		if err != nil {
			return fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
		}
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}

// manifestDir resolves the deletion manifest directory.
func manifestDir(cfg *config.Config) string {
	if cfg.Manifests.Dir != "" {
		return cfg.Manifests.Dir
	}
	return config.DefaultManifestDir()
}

// recordRun appends an entry to the operation journal. Journal failures
// never fail the command; the report already went to the user.
func recordRun(cfg *config.Config, entry *journal.Entry) {
	if !cfg.Journal.Enabled {
		return
	}

	path := cfg.Journal.Path
	if path == "" {
		path = config.DefaultJournalPath()
	}
	if err := config.EnsureDataDir(); err != nil {
		logging.Get("cli").Warn("journal unavailable", "error", err)
		return
	}

	j, err := journal.Open(path)
	if err != nil {
		logging.Get("cli").Warn("journal unavailable", "path", path, "error", err)
		return
	}
	defer func() { _ = j.Close() }()

	if err := j.Append(entry); err != nil {
		logging.Get("cli").Warn("journal append failed", "error", err)
	}
}

// journalEntry assembles the common journal fields for a run.
func journalEntry(op, root string, count int, bytes int64, elapsed time.Duration) *journal.Entry {
	return &journal.Entry{
		Op:      op,
		Root:    root,
		Count:   count,
		Bytes:   bytes,
		Elapsed: elapsed,
	}
}
