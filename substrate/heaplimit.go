package substrate

import (
	"math"
	"runtime/debug"
)

// fallbackHeapLimit is used when neither a Go memory limit nor the
// physical memory size is known.
const fallbackHeapLimit = 16 << 30

// defaultHeapLimit returns the byte ceiling for a Heap created without
// WithHeapLimit: the Go soft memory limit when one is set, otherwise the
// physical memory size.
func defaultHeapLimit() uint64 {
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		return uint64(limit)
	}
	if total := physicalMemory(); total > 0 {
		return total
	}
	return fallbackHeapLimit
}
