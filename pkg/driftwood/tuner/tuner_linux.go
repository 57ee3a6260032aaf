//go:build linux

package tuner

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect reads CPU and memory resources. CPU cores come from the
// runtime and memory from sysinfo(2). Freeram alone undercounts what
// the kernel would hand back under pressure, so the buffer share is
// folded into the available figure.
func Detect() (SystemResources, error) {
	resources := SystemResources{
		CPUCores: runtime.NumCPU(),
	}

	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return resources, fmt.Errorf("sysinfo: %w", err)
	}

	unitSize := int64(info.Unit)
	total := int64(info.Totalram) * unitSize
	available := (int64(info.Freeram) + int64(info.Bufferram)) * unitSize
	if available <= 0 || available > total {
		available = total / 2
	}

	resources.TotalRAM = total
	resources.AvailableRAM = available

	return resources, nil
}
