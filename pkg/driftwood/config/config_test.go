package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Use a temp directory that doesn't have a config file
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.Policy != DefaultPolicy {
		t.Errorf("Policy = %q, want %q", cfg.Policy, DefaultPolicy)
	}
	if cfg.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", cfg.Limit, DefaultLimit)
	}
	if cfg.Top != DefaultTop {
		t.Errorf("Top = %d, want %d", cfg.Top, DefaultTop)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (auto)", cfg.Workers)
	}
	if !cfg.Journal.Enabled {
		t.Error("Journal.Enabled = false, want true")
	}
	if cfg.Journal.RetentionDays != DefaultRetentionDays {
		t.Errorf("Journal.RetentionDays = %d, want %d", cfg.Journal.RetentionDays, DefaultRetentionDays)
	}
	if !cfg.Manifests.Enabled {
		t.Error("Manifests.Enabled = false, want true")
	}
	if len(cfg.Categories) != len(DefaultCategories) {
		t.Errorf("len(Categories) = %d, want %d", len(cfg.Categories), len(DefaultCategories))
	}
	if len(cfg.Policies.Safe) != len(DefaultSafePatterns) {
		t.Errorf("len(Policies.Safe) = %d, want %d", len(cfg.Policies.Safe), len(DefaultSafePatterns))
	}
}

func TestLoad_CategoryOrderPreserved(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for i, spec := range cfg.Categories {
		if spec.Name != DefaultCategories[i].Name {
			t.Errorf("Categories[%d].Name = %q, want %q", i, spec.Name, DefaultCategories[i].Name)
		}
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "driftwood")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
output: json
policy: aggressive
limit: 25
categories:
  - name: log
    patterns: ["*.log"]
policies:
  safe: ["*.tmp"]
  aggressive_extra: ["*.log"]
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want %q", cfg.Output, "json")
	}
	if cfg.Policy != "aggressive" {
		t.Errorf("Policy = %q, want %q", cfg.Policy, "aggressive")
	}
	if cfg.Limit != 25 {
		t.Errorf("Limit = %d, want 25", cfg.Limit)
	}
	if len(cfg.Categories) != 1 || cfg.Categories[0].Name != "log" {
		t.Errorf("Categories = %v, want single log entry", cfg.Categories)
	}
}

func TestPolicyPatterns_SafeSubsetOfAggressive(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	safe, err := cfg.PolicyPatterns("safe")
	if err != nil {
		t.Fatalf("PolicyPatterns(safe) error = %v", err)
	}
	aggressive, err := cfg.PolicyPatterns("aggressive")
	if err != nil {
		t.Fatalf("PolicyPatterns(aggressive) error = %v", err)
	}

	inAggressive := make(map[string]bool, len(aggressive))
	for _, p := range aggressive {
		inAggressive[p] = true
	}
	for _, p := range safe {
		if !inAggressive[p] {
			t.Errorf("safe pattern %q missing from aggressive policy", p)
		}
	}
	if len(aggressive) <= len(safe) {
		t.Error("aggressive policy should extend the safe policy")
	}
}

func TestPolicyPatterns_Unknown(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.PolicyPatterns("reckless"); err == nil {
		t.Error("PolicyPatterns(reckless) expected error, got nil")
	}
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	configPath := filepath.Join(tempDir, "driftwood", "config.yaml")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("expected config file at %s: %v", configPath, err)
	}

	// Second call must leave the existing file alone.
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}

	// The written file must round-trip through Load.
	t.Setenv("HOME", tempDir)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() after WriteDefault error = %v", err)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("round-tripped Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if len(cfg.Categories) != len(DefaultCategories) {
		t.Errorf("round-tripped len(Categories) = %d, want %d", len(cfg.Categories), len(DefaultCategories))
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no tilde", input: "/var/tmp", want: "/var/tmp"},
		{name: "tilde only", input: "~", want: home},
		{name: "tilde with path", input: "~/projects", want: filepath.Join(home, "projects")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
