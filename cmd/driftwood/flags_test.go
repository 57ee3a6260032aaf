package main

import (
	"errors"
	"testing"
	"time"

	"github.com/jamesainslie/driftwood/pkg/driftwood/config"
	"github.com/spf13/viper"
)

func TestParseSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{
			name: "unix seconds",
			in:   "1748736000",
			want: time.Unix(1748736000, 0),
		},
		{
			name: "rfc3339",
			in:   "2025-05-30T00:00:00Z",
			want: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "age",
			in:   "36h",
			want: now.Add(-36 * time.Hour),
		},
		{
			name:    "garbage",
			in:      "yesterday",
			wantErr: true,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSince(tt.in, now)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSince(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseSince(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLimitForPrecedence(t *testing.T) {
	cfg := &config.Config{Limit: 25}

	viper.Reset()
	if got := limitFor(cfg); got != 25 {
		t.Errorf("expected config limit 25, got %d", got)
	}

	viper.Set("limit", 7)
	if got := limitFor(cfg); got != 7 {
		t.Errorf("expected flag limit 7, got %d", got)
	}

	viper.Reset()
	if got := limitFor(&config.Config{}); got != config.DefaultLimit {
		t.Errorf("expected built-in default %d, got %d", config.DefaultLimit, got)
	}
}

func TestTopForPrecedence(t *testing.T) {
	cfg := &config.Config{Top: 3}

	viper.Reset()
	if got := topFor(cfg); got != 3 {
		t.Errorf("expected config top 3, got %d", got)
	}

	viper.Set("top", 9)
	if got := topFor(cfg); got != 9 {
		t.Errorf("expected flag top 9, got %d", got)
	}
	viper.Reset()
}

func TestWorkerPoolPrecedence(t *testing.T) {
	cfg := &config.Config{Workers: 3}

	viper.Reset()
	if got := workerPool(cfg); got != 3 {
		t.Errorf("expected config workers 3, got %d", got)
	}

	viper.Set("workers", 2)
	if got := workerPool(cfg); got != 2 {
		t.Errorf("expected flag workers 2, got %d", got)
	}

	viper.Reset()
	if got := workerPool(&config.Config{}); got <= 0 {
		t.Errorf("expected auto-detected pool > 0, got %d", got)
	}
}

func TestInsideGitDir(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/work/project/.git/index.lock", true},
		{"/work/project/.git", true},
		{"/work/project/src/main.go", false},
		{"/work/project/.github/workflows/ci.yaml", false},
		{"/work/.gitignore", false},
	}

	for _, tt := range tests {
		if got := insideGitDir(tt.path); got != tt.want {
			t.Errorf("insideGitDir(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestBuildPolicyUnknownName(t *testing.T) {
	viper.Reset()
	viper.Set("policy", "yolo")
	defer viper.Reset()

	_, err := buildPolicy(config.Defaults())
	if !errors.Is(err, config.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestBuildPolicyDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	policy, err := buildPolicy(config.Defaults())
	if err != nil {
		t.Fatalf("buildPolicy: %v", err)
	}
	if policy.Name() != config.DefaultPolicy {
		t.Errorf("expected %s policy, got %s", config.DefaultPolicy, policy.Name())
	}
}

func TestBuildTableFromDefaults(t *testing.T) {
	table, err := buildTable(config.Defaults())
	if err != nil {
		t.Fatalf("buildTable: %v", err)
	}

	cats := table.Categories()
	if len(cats) != len(config.DefaultCategories)+1 {
		t.Fatalf("expected %d categories with fallback, got %d",
			len(config.DefaultCategories)+1, len(cats))
	}
	if cats[len(cats)-1] != "other" {
		t.Errorf("expected other as the final category, got %q", cats[len(cats)-1])
	}
}
