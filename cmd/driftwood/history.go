package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/jamesainslie/driftwood/pkg/driftwood/journal"
	"github.com/jamesainslie/driftwood/pkg/driftwood/manifest"
	"github.com/jamesainslie/driftwood/pkg/driftwood/output"
	"github.com/jamesainslie/driftwood/pkg/driftwood/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the journal of past driftwood runs.

Every completed operation appends one journal entry recording the
worktree, the operation, and its totals. The journal is advisory:
when it cannot be opened, operations still run and report normally.

Use --limit to control how many entries are shown (newest first).`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a specific run",
	Long:  `Display the full journal record of a single run by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old journal entries",
	Long: `Remove journal entries older than the retention period, or every
entry with --all.`,
	RunE: runHistoryClean,
}

var historyCleanAll bool

func init() {
	historyCleanCmd.Flags().BoolVar(&historyCleanAll, "all", false, "remove every journal entry")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openJournal opens the configured journal store. Unlike the write path,
// history commands fail when the journal is unavailable; the journal is
// the whole point here.
func openJournal(cfg *config.Config) (*journal.Journal, error) {
	path := cfg.Journal.Path
	if path == "" {
		path = config.DefaultJournalPath()
	}

	if err := config.EnsureDataDir(); err != nil {
		return nil, err
	}

	j, err := journal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, nil
}

// runHistory lists recent journal entries.
func runHistory(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	limit := viper.GetInt("limit")
	if limit <= 0 {
		limit = 20
	}

	entries, err := j.List(limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No journal entries found.")
		printInfo("Run 'driftwood [path]' to record a first one.")
		return nil
	}

	section := &output.HistorySection{}
	for _, e := range entries {
		section.Entries = append(section.Entries, output.HistoryEntryView{
			ID:        e.ID,
			Time:      e.Time,
			Op:        e.Op,
			Root:      e.Root,
			Policy:    e.Policy,
			Count:     e.Count,
			Bytes:     e.Bytes,
			SizeHuman: types.FormatSize(e.Bytes),
			Deleted:   e.Deleted,
			Failed:    e.Failed,
		})
	}

	return renderReport(&output.Report{
		Op:      "history",
		History: section,
	})
}

// runHistoryShow displays one journal entry in full.
func runHistoryShow(_ *cobra.Command, args []string) error {
	cfg := loadConfig()

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	entry, err := j.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nRun Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:        %s\n", entry.ID)
	fmt.Printf("Time:      %s\n", entry.Time.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation: %s\n", entry.Op)
	fmt.Printf("Worktree:  %s\n", entry.Root)
	if entry.Policy != "" {
		fmt.Printf("Policy:    %s\n", entry.Policy)
	}
	fmt.Printf("Count:     %d\n", entry.Count)
	fmt.Printf("Size:      %s\n", types.FormatSize(entry.Bytes))
	if entry.Op == "clean" {
		fmt.Printf("Deleted:   %d\n", entry.Deleted)
		fmt.Printf("Failed:    %d\n", entry.Failed)
	}
	fmt.Printf("Elapsed:   %s\n", output.FormatDuration(entry.Elapsed))
	if entry.Manifest != "" {
		fmt.Printf("Manifest:  %s\n", entry.Manifest)
		showManifestFiles(cfg, entry.Manifest)
	}

	return nil
}

// showManifestFiles lists the paths a clean run removed, read back from
// its deletion manifest. A missing manifest is not an error; the
// pointer in the journal outlives pruned manifest files.
func showManifestFiles(cfg *config.Config, id string) {
	m, err := manifest.New(manifestDir(cfg))
	if err != nil {
		return
	}
	entry, err := m.Get(id)
	if err != nil {
		printVerbose("Manifest unavailable: %v", err)
		return
	}

	limit := limitFor(cfg)

	fmt.Println("\nRemoved:")
	for i, f := range entry.Files {
		if limit > 0 && i >= limit {
			fmt.Printf("  ... and %d more\n", len(entry.Files)-limit)
			break
		}
		fmt.Printf("  %-10s %s\n", types.FormatSize(f.Size), f.Path)
	}
}

// runHistoryClean prunes old journal entries.
func runHistoryClean(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	if historyCleanAll {
		removed, err := j.Clear()
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		pruneManifests(cfg, time.Now().AddDate(100, 0, 0))
		if removed == 0 {
			printInfo("Journal already empty.")
			return nil
		}
		return renderReport(&output.Report{
			Op:      "history",
			History: &output.HistorySection{Pruned: removed},
		})
	}

	retentionDays := cfg.Journal.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Removing journal entries older than %d days...", retentionDays)

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed, err := j.Prune(cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	pruneManifests(cfg, cutoff)

	if removed == 0 {
		printInfo("No journal entries older than %d days.", retentionDays)
		return nil
	}
	return renderReport(&output.Report{
		Op:      "history",
		History: &output.HistorySection{Pruned: removed},
	})
}

// pruneManifests drops deletion manifests along with their journal
// entries. Manifest pruning is best effort.
func pruneManifests(cfg *config.Config, cutoff time.Time) {
	m, err := manifest.New(manifestDir(cfg))
	if err != nil {
		return
	}
	if pruned, err := m.Prune(cutoff); err != nil {
		printVerbose("Manifest prune failed: %v", err)
	} else if pruned > 0 {
		printVerbose("Removed %d deletion manifests.", pruned)
	}
}
