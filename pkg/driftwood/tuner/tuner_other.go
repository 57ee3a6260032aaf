//go:build !darwin && !linux

package tuner

import (
	"runtime"
)

// fallbackRAM stands in for total memory on platforms without a
// detection path.
const fallbackRAM = 8 << 30

// Detect reads CPU cores from the runtime and assumes fallbackRAM of
// memory, half of it available.
func Detect() (SystemResources, error) {
	return SystemResources{
		CPUCores:     runtime.NumCPU(),
		TotalRAM:     fallbackRAM,
		AvailableRAM: fallbackRAM / 2,
	}, nil
}
