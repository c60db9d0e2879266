package rawmem

import (
	"sync/atomic"
)

// MetricsCollector defines an interface for collecting allocation metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the promcollector package for a ready-made implementation.
type MetricsCollector interface {
	// RecordAlloc is called after each allocation attempt.
	// size is the requested size in bytes, ok is false on failure.
	RecordAlloc(size uintptr, ok bool)

	// RecordRealloc is called after each reallocation attempt of a non-nil
	// region. Reallocating nil is reported through RecordAlloc.
	RecordRealloc(size uintptr, ok bool)

	// RecordFree is called for each non-nil Free.
	RecordFree()

	// RecordOutOfMemory is called before a promoting variant panics.
	RecordOutOfMemory(size uintptr)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(uintptr, bool)   {}
func (NoopMetricsCollector) RecordRealloc(uintptr, bool) {}
func (NoopMetricsCollector) RecordFree()                 {}
func (NoopMetricsCollector) RecordOutOfMemory(uintptr)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount      atomic.Int64
	AllocFailures   atomic.Int64
	AllocBytes      atomic.Uint64
	ReallocCount    atomic.Int64
	ReallocFailures atomic.Int64
	ReallocBytes    atomic.Uint64
	FreeCount       atomic.Int64
	OutOfMemory     atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(size uintptr, ok bool) {
	b.AllocCount.Add(1)
	if !ok {
		b.AllocFailures.Add(1)
		return
	}
	b.AllocBytes.Add(uint64(size))
}

// RecordRealloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRealloc(size uintptr, ok bool) {
	b.ReallocCount.Add(1)
	if !ok {
		b.ReallocFailures.Add(1)
		return
	}
	b.ReallocBytes.Add(uint64(size))
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree() {
	b.FreeCount.Add(1)
}

// RecordOutOfMemory implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOutOfMemory(uintptr) {
	b.OutOfMemory.Add(1)
}

// Live returns allocations minus frees.
func (b *BasicMetricsCollector) Live() int64 {
	return b.AllocCount.Load() - b.AllocFailures.Load() - b.FreeCount.Load()
}
