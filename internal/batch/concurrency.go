// internal/batch/concurrency.go
package batch

import (
	"runtime"
)

// MaxConcurrency caps concurrent resolutions.
const MaxConcurrency = 8

// OptimalConcurrency calculates optimal concurrency based on CPU and memory
func OptimalConcurrency() int {
	numCPU := runtime.NumCPU()

	// Resolution is I/O bound
	optimal := numCPU * 2

	// Cap based on available memory
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	availMB := (m.Sys - m.Alloc) / 1024 / 1024

	// Assume ~50MB per browser tab when page rendering escalates
	maxByMemory := int(availMB / 50)

	// Capped below the search API burst limit
	if optimal > MaxConcurrency {
		optimal = MaxConcurrency
	}

	if maxByMemory > 0 && maxByMemory < optimal {
		return maxByMemory
	}
	return optimal
}
