package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPolicy is returned when a policy name is not safe or aggressive.
var ErrUnknownPolicy = errors.New("unknown cleanup policy")

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Console    string            `mapstructure:"console"`
	Components map[string]string `mapstructure:"components"`
}

// PoliciesConfig holds the cleanup pattern lists. The aggressive policy is
// always the safe list plus the extras, so safe is a subset by construction.
type PoliciesConfig struct {
	Safe            []string `mapstructure:"safe"`
	AggressiveExtra []string `mapstructure:"aggressive_extra"`
}

// JournalConfig configures the operation journal.
type JournalConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Output     string         `mapstructure:"output"`
	Policy     string         `mapstructure:"policy"`
	Limit      int            `mapstructure:"limit"`
	Top        int            `mapstructure:"top"`
	Workers    int            `mapstructure:"workers"`
	Exclude    []string       `mapstructure:"exclude"`
	Categories []CategorySpec `mapstructure:"categories"`
	Policies   PoliciesConfig `mapstructure:"policies"`
	Journal    JournalConfig  `mapstructure:"journal"`
	Logging    LoggingConfig  `mapstructure:"logging"`
	Watch      struct {
		DebounceMS int `mapstructure:"debounce_ms"`
	} `mapstructure:"watch"`
	Snapshots struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"snapshots"`
	Manifests struct {
		Enabled bool   `mapstructure:"enabled"`
		Dir     string `mapstructure:"dir"`
	} `mapstructure:"manifests"`
}

// PolicyPatterns returns the effective pattern list for a policy name.
// The aggressive list is built from the safe list plus the configured
// extras, which keeps the safe policy a subset of the aggressive one.
func (c *Config) PolicyPatterns(name string) ([]string, error) {
	switch name {
	case "safe":
		return c.Policies.Safe, nil
	case "aggressive":
		patterns := make([]string, 0, len(c.Policies.Safe)+len(c.Policies.AggressiveExtra))
		patterns = append(patterns, c.Policies.Safe...)
		patterns = append(patterns, c.Policies.AggressiveExtra...)
		return patterns, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// setDefaults registers every default value on the given viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("policy", DefaultPolicy)
	v.SetDefault("limit", DefaultLimit)
	v.SetDefault("top", DefaultTop)
	v.SetDefault("workers", 0)
	v.SetDefault("exclude", DefaultExclude)
	v.SetDefault("categories", DefaultCategories)
	v.SetDefault("policies.safe", DefaultSafePatterns)
	v.SetDefault("policies.aggressive_extra", DefaultAggressiveExtra)
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "")
	v.SetDefault("journal.retention_days", DefaultRetentionDays)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", "")
	v.SetDefault("logging.components", map[string]string{})
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
	v.SetDefault("snapshots.dir", "")
	v.SetDefault("manifests.enabled", true)
	v.SetDefault("manifests.dir", "")
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/driftwood/config.yaml
//   - $HOME/.config/driftwood/config.yaml
//
// Environment variables are prefixed with DRIFTWOOD_
// (e.g., DRIFTWOOD_POLICY, DRIFTWOOD_LOGGING_LEVEL).
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the named config file when the
// path is non-empty. An explicit file that cannot be read is an error;
// a missing default file is not.
func LoadFrom(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "driftwood"))
		}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.AddConfigPath(filepath.Join(homeDir, ".config", "driftwood"))
	}

	v.SetEnvPrefix("DRIFTWOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a configuration carrying only the built-in defaults.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "driftwood"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "driftwood"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DataDir returns $XDG_DATA_HOME/driftwood/ for the journal database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "driftwood")
}

// StateDir returns $XDG_STATE_HOME/driftwood/ for snapshots and logs.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "driftwood")
}

// DefaultSnapshotDir returns the directory drift snapshots are stored in.
func DefaultSnapshotDir() string {
	return filepath.Join(StateDir(), "snapshots")
}

// DefaultJournalPath returns the default journal database path.
func DefaultJournalPath() string {
	return filepath.Join(DataDir(), "journal")
}

// DefaultManifestDir returns the default deletion manifest directory.
func DefaultManifestDir() string {
	return filepath.Join(DataDir(), "manifests")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "driftwood.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	categories, err := yaml.Marshal(DefaultCategories)
	if err != nil {
		return fmt.Errorf("failed to render default categories: %w", err)
	}
	safe, err := yaml.Marshal(DefaultSafePatterns)
	if err != nil {
		return fmt.Errorf("failed to render safe patterns: %w", err)
	}
	extra, err := yaml.Marshal(DefaultAggressiveExtra)
	if err != nil {
		return fmt.Errorf("failed to render aggressive patterns: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Driftwood Configuration

# Output format: pretty, plain, json, yaml, paths, null, template
output: %s

# Cleanup policy used when --policy is not given: safe, aggressive
policy: %s

# Maximum sample paths shown in listings
limit: %d

# Number of directories shown in breakdowns
top: %d

# Scan worker pool size (0 sizes the pool from CPU and memory)
workers: 0

# Extra scan exclusion patterns (git metadata is always excluded)
exclude: []

# Ordered classification table; first match wins, unmatched paths fall
# back to "other".
categories:
%s
# Cleanup policies. The aggressive policy is the safe list plus
# aggressive_extra, so everything safe deletes is also deleted by
# aggressive.
policies:
  safe:
%s  aggressive_extra:
%s
# Operation journal settings
journal:
  enabled: true
  # Journal database path (empty means $XDG_DATA_HOME/driftwood/journal)
  path: ""
  retention_days: %d

# Deletion manifests record exactly which paths each clean removed
manifests:
  enabled: true
  # Manifest directory (empty means $XDG_DATA_HOME/driftwood/manifests)
  dir: ""

# Drift snapshot settings
snapshots:
  # Snapshot directory (empty means $XDG_STATE_HOME/driftwood/snapshots)
  dir: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means $XDG_STATE_HOME/driftwood/driftwood.log)
  path: ""
  # Console echo level (empty disables console logging)
  console: ""
  # Per-component log levels
  components: {}

# Drift watch mode settings
watch:
  debounce_ms: %d
`, DefaultOutput, DefaultPolicy, DefaultLimit, DefaultTop,
		indentYAML(string(categories), "  "),
		indentYAML(string(safe), "    "),
		indentYAML(string(extra), "    "),
		DefaultRetentionDays, DefaultDebounceMS)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// indentYAML prefixes every non-empty line of a rendered YAML block.
func indentYAML(block, prefix string) string {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
