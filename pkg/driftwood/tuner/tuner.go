// Package tuner sizes the scan worker pool from detected system
// resources. The walk runs a single pool that both descends directories
// and stats files, so one count covers all of it.
package tuner

// SystemResources contains detected system resources.
type SystemResources struct {
	// CPUCores is the number of logical CPU cores available.
	CPUCores int

	// TotalRAM is the total physical RAM in bytes.
	TotalRAM int64

	// AvailableRAM is the available RAM in bytes. Platform detection
	// may estimate it.
	AvailableRAM int64
}

// Pool size bounds.
const (
	// minWorkers is the pool floor; the walk stays parallel even on
	// two-core machines.
	minWorkers = 4

	// maxWorkers is the pool cap for any machine.
	maxWorkers = 32

	// lowMemory is the available-RAM threshold below which the pool
	// holds at minWorkers.
	lowMemory = 1 << 30
)

// Workers returns the walk pool size for the given resources. The walk
// is stat bound rather than compute bound, so the pool runs at twice
// the core count, clamped to [minWorkers, maxWorkers]. Machines with
// less than lowMemory available stay at the floor.
func Workers(resources SystemResources) int {
	workers := resources.CPUCores * 2
	workers = max(workers, minWorkers)
	workers = min(workers, maxWorkers)

	if resources.AvailableRAM > 0 && resources.AvailableRAM < lowMemory {
		workers = minWorkers
	}

	return workers
}

// WorkersWithOverride applies a user-requested pool size. Requests above
// the cap are clamped rather than rejected; zero or negative requests
// fall back to the calculated size.
func WorkersWithOverride(resources SystemResources, override int) int {
	if override > 0 {
		return min(override, maxWorkers)
	}
	return Workers(resources)
}
