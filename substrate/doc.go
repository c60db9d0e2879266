// Package substrate provides allocator substrates for the rawmem façade.
//
// A substrate hands out raw regions through a single aligned-at-offset
// entry point per operation:
//
//	Alloc(size, alignment, offset, zero) unsafe.Pointer
//	Realloc(p, size, alignment, offset, zero) unsafe.Pointer
//	Free(p)
//
// A nil result means failure. Alignment 0 selects DefaultAlignment. A
// returned address a satisfies (a + offset) % alignment == 0.
//
// # Implementations
//
//   - Heap: Go-heap buffers, over-allocated for alignment and pinned in a
//     registry until Free. Regions must not hold Go pointers the collector
//     needs to see.
//   - Mmap: one anonymous mapping per region, outside the Go heap.
//   - Budgeted: wraps another substrate and enforces a byte limit.
//
// # Thread Safety
//
// All substrates are safe for concurrent calls on independent regions.
// Concurrent use of the same region is the caller's responsibility.
package substrate
