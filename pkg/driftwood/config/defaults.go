// Package config provides configuration management for driftwood.
package config

// Default configuration values.
const (
	// DefaultOutput is the output format used when none is specified.
	DefaultOutput = "pretty"

	// DefaultPolicy is the cleanup policy used when none is specified.
	DefaultPolicy = "safe"

	// DefaultLimit is the maximum number of sample paths shown in listings.
	DefaultLimit = 10

	// DefaultTop is the number of directories shown in breakdowns.
	DefaultTop = 5

	// DefaultRetentionDays is how long journal entries are retained.
	DefaultRetentionDays = 30

	// DefaultDebounceMS is the quiet period, in milliseconds, after a
	// filesystem event before a watched drift check re-runs.
	DefaultDebounceMS = 500
)

// CategorySpec pairs a category name with the patterns that select it.
// The order of specs is the classification priority order.
type CategorySpec struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns"`
}

// DefaultCategories is the ordered classification table. Earlier entries
// win when a path matches more than one; "other" is an implicit fallback
// and never appears here.
var DefaultCategories = []CategorySpec{
	{
		Name:     "temporary",
		Patterns: []string{"*.tmp", "*.temp", "*.swp", "*.swo", "*~", "*.bak", ".#*", "#*#"},
	},
	{
		Name: "language-cache",
		Patterns: []string{
			"__pycache__/", "*.pyc", "*.pyo", "node_modules/", ".venv/", "venv/",
			".tox/", ".mypy_cache/", ".pytest_cache/", ".ruff_cache/", "*.egg-info/",
		},
	},
	{
		Name:     "log",
		Patterns: []string{"*.log", "*.log.*", "logs/"},
	},
	{
		Name: "build-artifact",
		Patterns: []string{
			"build/", "dist/", "target/", "out/",
			"*.o", "*.so", "*.a", "*.dylib", "*.class", "*.exe",
		},
	},
	{
		Name:     "ide-metadata",
		Patterns: []string{".idea/", ".vscode/", "*.iml", ".vs/", "*.code-workspace"},
	},
	{
		Name:     "os-metadata",
		Patterns: []string{".DS_Store", "Thumbs.db", "desktop.ini", "._*"},
	},
	{
		Name: "test-artifact",
		Patterns: []string{
			"test-repos/", "test-output/", "htmlcov/",
			".coverage", "coverage.*", "*.cover",
		},
	},
}

// DefaultSafePatterns selects entries whose deletion is never destructive:
// caches and scratch files every tool regenerates.
var DefaultSafePatterns = []string{
	"*.pyc", "__pycache__/", ".DS_Store", "Thumbs.db",
	"*.tmp", "*.temp", "*.log.bak", "*.bak", "*~",
	".pytest_cache/", ".mypy_cache/", ".ruff_cache/",
}

// DefaultAggressiveExtra extends the safe set for the aggressive policy.
// The effective aggressive pattern list is always safe plus these.
var DefaultAggressiveExtra = []string{
	"*.log", "logs/", "test-repos/", "test-output/",
	"htmlcov/", ".coverage", "coverage.*", "build/", "dist/",
}

// DefaultExclude contains scan exclusion patterns applied on top of the
// built-in git metadata exclusion.
var DefaultExclude = []string{}
