// Package mmap provides anonymous read-write memory mappings.
//
// # Overview
//
// Anonymous mappings live outside the Go heap: the garbage collector never
// scans, moves, or frees them. They back the off-heap allocator substrate.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // zero-filled on creation
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT
//
// # Thread Safety
//
// Close is idempotent and protected by atomic operations. Callers must
// ensure no goroutine touches Bytes() after Close() returns.
package mmap
