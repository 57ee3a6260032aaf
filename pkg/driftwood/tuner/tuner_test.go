package tuner

import (
	"runtime"
	"testing"
)

func TestDetect(t *testing.T) {
	resources, err := Detect()
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}

	if resources.CPUCores != runtime.NumCPU() {
		t.Errorf("CPUCores = %d, want %d (runtime.NumCPU())", resources.CPUCores, runtime.NumCPU())
	}

	minRAM := int64(512 * 1024 * 1024)
	if resources.TotalRAM < minRAM {
		t.Errorf("TotalRAM = %d bytes, want >= %d bytes (512MB)", resources.TotalRAM, minRAM)
	}

	if resources.AvailableRAM <= 0 {
		t.Errorf("AvailableRAM = %d, want > 0", resources.AvailableRAM)
	}
	if resources.AvailableRAM > resources.TotalRAM {
		t.Errorf("AvailableRAM (%d) > TotalRAM (%d), available should be <= total",
			resources.AvailableRAM, resources.TotalRAM)
	}
}

func TestWorkers(t *testing.T) {
	gib := int64(1 << 30)

	tests := []struct {
		name      string
		resources SystemResources
		want      int
	}{
		{
			name:      "small system (2 cores, 4GB RAM)",
			resources: SystemResources{CPUCores: 2, TotalRAM: 4 * gib, AvailableRAM: 2 * gib},
			want:      4, // floor wins over 2*cores
		},
		{
			name:      "medium system (8 cores, 16GB RAM)",
			resources: SystemResources{CPUCores: 8, TotalRAM: 16 * gib, AvailableRAM: 8 * gib},
			want:      16,
		},
		{
			name:      "large system (32 cores, 64GB RAM)",
			resources: SystemResources{CPUCores: 32, TotalRAM: 64 * gib, AvailableRAM: 32 * gib},
			want:      32, // capped
		},
		{
			name:      "constrained memory (8 cores, 512MB available)",
			resources: SystemResources{CPUCores: 8, TotalRAM: 2 * gib, AvailableRAM: gib / 2},
			want:      4, // held at the floor
		},
		{
			name:      "unknown memory (8 cores, zero available)",
			resources: SystemResources{CPUCores: 8},
			want:      16, // zero means undetected, not constrained
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Workers(tt.resources); got != tt.want {
				t.Errorf("Workers() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWorkersWithOverride(t *testing.T) {
	gib := int64(1 << 30)
	resources := SystemResources{CPUCores: 8, TotalRAM: 16 * gib, AvailableRAM: 8 * gib}

	tests := []struct {
		name     string
		override int
		want     int
	}{
		{name: "no override (0)", override: 0, want: 16},
		{name: "negative falls back", override: -3, want: 16},
		{name: "override with 12", override: 12, want: 12},
		{name: "override capped", override: 100, want: 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WorkersWithOverride(resources, tt.override); got != tt.want {
				t.Errorf("WorkersWithOverride(%d) = %d, want %d", tt.override, got, tt.want)
			}
		})
	}
}

func TestWorkersIntegration(t *testing.T) {
	resources, err := Detect()
	if err != nil {
		t.Fatalf("Detect() failed: %v", err)
	}

	workers := Workers(resources)
	if workers < minWorkers || workers > maxWorkers {
		t.Errorf("Workers() = %d, want in range [%d, %d]", workers, minWorkers, maxWorkers)
	}
}
