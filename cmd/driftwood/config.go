package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage driftwood configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/driftwood/config.yaml (if set)
  2. ~/.config/driftwood/config.yaml

Environment variables can override config file settings using the DRIFTWOOD_ prefix:
  DRIFTWOOD_POLICY=aggressive
  DRIFTWOOD_OUTPUT=json
  DRIFTWOOD_JOURNAL_RETENTION_DAYS=90`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("output:                   %s\n", cfg.Output)
	fmt.Printf("policy:                   %s\n", cfg.Policy)
	fmt.Printf("limit:                    %d\n", cfg.Limit)
	fmt.Printf("top:                      %d\n", cfg.Top)
	fmt.Printf("workers:                  %s\n", orAuto(cfg.Workers))
	fmt.Printf("exclude:                  %v\n", cfg.Exclude)
	fmt.Printf("categories:               %d configured\n", len(cfg.Categories))
	fmt.Printf("policies.safe:            %d patterns\n", len(cfg.Policies.Safe))
	fmt.Printf("policies.aggressive:      %d patterns (safe + %d extra)\n",
		len(cfg.Policies.Safe)+len(cfg.Policies.AggressiveExtra), len(cfg.Policies.AggressiveExtra))
	fmt.Printf("journal.enabled:          %t\n", cfg.Journal.Enabled)
	fmt.Printf("journal.path:             %s\n", orDefault(cfg.Journal.Path, config.DefaultJournalPath()))
	fmt.Printf("journal.retention_days:   %d\n", cfg.Journal.RetentionDays)
	fmt.Printf("manifests.enabled:        %t\n", cfg.Manifests.Enabled)
	fmt.Printf("manifests.dir:            %s\n", orDefault(cfg.Manifests.Dir, config.DefaultManifestDir()))
	fmt.Printf("logging.level:            %s\n", cfg.Logging.Level)
	fmt.Printf("logging.path:             %s\n", orDefault(cfg.Logging.Path, config.DefaultLogPath()))
	fmt.Printf("watch.debounce_ms:        %d\n", cfg.Watch.DebounceMS)
	fmt.Printf("snapshots.dir:            %s\n", orDefault(cfg.Snapshots.Dir, config.DefaultSnapshotDir()))

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"DRIFTWOOD_OUTPUT",
		"DRIFTWOOD_POLICY",
		"DRIFTWOOD_LIMIT",
		"DRIFTWOOD_TOP",
		"DRIFTWOOD_WORKERS",
		"DRIFTWOOD_EXCLUDE",
		"DRIFTWOOD_JOURNAL_ENABLED",
		"DRIFTWOOD_JOURNAL_PATH",
		"DRIFTWOOD_JOURNAL_RETENTION_DAYS",
		"DRIFTWOOD_MANIFESTS_ENABLED",
		"DRIFTWOOD_MANIFESTS_DIR",
		"DRIFTWOOD_LOGGING_LEVEL",
		"DRIFTWOOD_SNAPSHOTS_DIR",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// orDefault substitutes the effective default for an unset path value.
func orDefault(val, def string) string {
	if val != "" {
		return val
	}
	return def + " (default)"
}

// orAuto renders a worker count, with zero meaning auto-detection.
func orAuto(n int) string {
	if n > 0 {
		return fmt.Sprintf("%d", n)
	}
	return "auto"
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(_ *cobra.Command, _ []string) error {
	// Ensure config file exists
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Determine editor
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'driftwood config edit' to modify it.")
		return nil
	}

	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(_ *cobra.Command, _ []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	// Show if file exists
	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
