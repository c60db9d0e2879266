// Package rawmem provides unmanaged memory primitives for Go.
//
// Rawmem is a raw malloc/free-equivalent layer: an allocation façade over a
// pluggable substrate, plus width-dispatched bulk Copy (memmove) and Clear
// (memset zero) engines that work on any byte region regardless of origin.
//
// # Quick Start
//
//	a := rawmem.New()
//	p := a.Allocate(100, true)       // 100 zero bytes, panics on failure
//	p = a.Reallocate(p, 250, false)  // first 100 bytes preserved
//	defer a.Free(p)
//
// Off-heap memory with a hard cap:
//
//	a := rawmem.New(
//	    rawmem.WithSubstrate(substrate.NewMmap()),
//	    rawmem.WithMemoryLimit(64<<20),
//	)
//
// # Failure Model
//
// Every operation comes in two forms:
//
//	p := a.TryAllocate(n, false)  // nil on failure, caller decides
//	p := a.Allocate(n, false)     // panics with *OutOfMemoryError
//
// Panic values implement error and match the package sentinels:
//
//	defer func() {
//	    if err, ok := recover().(error); ok && errors.Is(err, rawmem.ErrOutOfMemory) {
//	        // ...
//	    }
//	}()
//
// # Copy and Clear
//
//	rawmem.Copy(dst, src, n)  // overlap safe in both directions
//	rawmem.Clear(dst, n)
//
// Lengths up to 32 bytes use anchored chunk pairs; longer lengths run
// 8-lane strides sized by the detected vector width, then 32-byte trailing
// blocks. Set RAWMEM_SIMD to pin an ISA (generic, sse2, avx2, avx512, neon,
// sve2) and inspect the selection with Capabilities.
//
// # Ownership
//
// Regions carry no lifecycle metadata. Nothing is reclaimed automatically:
// every region must be released with Free on the allocator that produced it.
// Regions are invisible to the garbage collector and must not hold Go
// pointers.
package rawmem
