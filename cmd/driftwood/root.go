package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/jamesainslie/driftwood/pkg/driftwood/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "driftwood [path]",
		Short: "Inventory the gitignored files in a worktree",
		Long: `Driftwood reports what accumulates in a git worktree outside of
version control: everything present on disk that git neither tracks
nor would add.

Running driftwood with no subcommand lists the ignored set for the
current worktree. Subcommands classify the set, plan and execute
cleanups, and detect drift between runs.

Examples:
  driftwood                      # List ignored files in the current worktree
  driftwood ~/src/project        # List for a specific worktree
  driftwood classify             # Break the ignored set into categories
  driftwood plan -p aggressive   # Preview an aggressive cleanup
  driftwood clean --dry-run      # Rehearse a cleanup without deleting
  driftwood drift                # Compare against the previous run
  driftwood history              # View past operations`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              runList,
		PersistentPreRunE: initLogging,
		SilenceUsage:      true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/driftwood/config.yaml)")
	rootCmd.PersistentFlags().StringP("policy", "p", "", "cleanup policy: safe or aggressive")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: pretty, plain, json, yaml, paths, null, template")
	rootCmd.PersistentFlags().IntP("limit", "l", 0, "maximum paths to list per section (0=config default)")
	rootCmd.PersistentFlags().IntP("top", "t", 0, "directories to show in breakdowns (0=config default)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "scan exclusion patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().Int("workers", 0, "scan worker count (0=auto-detect)")
	rootCmd.PersistentFlags().String("template", "", "Go template for -o template")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	// Bind flags to viper
	_ = viper.BindPFlag("policy", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("limit", rootCmd.PersistentFlags().Lookup("limit"))
	_ = viper.BindPFlag("top", rootCmd.PersistentFlags().Lookup("top"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Set config name and type
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "driftwood"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "driftwood"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("DRIFTWOOD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Set defaults from config package
	viper.SetDefault("policy", config.DefaultPolicy)
	viper.SetDefault("output", config.DefaultOutput)
	viper.SetDefault("limit", config.DefaultLimit)
	viper.SetDefault("top", config.DefaultTop)
	viper.SetDefault("workers", 0)
	viper.SetDefault("exclude", config.DefaultExclude)
	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.retention_days", config.DefaultRetentionDays)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// initLogging configures file logging before any command runs. Commands
// keep working when the log destination is unavailable; stdout stays
// reserved for reports.
func initLogging(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	level := cfg.Logging.Level
	if flagLevel := viper.GetString("log_level"); flagLevel != "" {
		level = flagLevel
	}
	if getVerbose() {
		level = "debug"
	}

	if err := config.EnsureStateDir(); err != nil {
		printVerbose("Failed to create state directory: %v", err)
	}

	logCfg := logging.Config{
		Level:      level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	}
	if getVerbose() {
		logCfg.ConsoleLevel = "debug"
	} else if cfg.Logging.Console != "" && !getQuiet() {
		logCfg.ConsoleLevel = cfg.Logging.Console
	}

	if err := logging.Init(logCfg); err != nil {
		printVerbose("Failed to initialize logging: %v", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logging.Close() }()
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
