package rawmem

import (
	"context"
	"unsafe"

	"github.com/hupe1980/rawmem/substrate"
)

// Substrate is the external allocator the façade delegates to. A nil result
// means the request could not be satisfied. See package substrate for the
// bundled implementations.
type Substrate interface {
	Alloc(size, alignment, offset uintptr, zero bool) unsafe.Pointer
	Realloc(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer
	Free(p unsafe.Pointer)
}

// DefaultAlignment is the alignment used by the plain (non-aligned) variants.
const DefaultAlignment = substrate.DefaultAlignment

// Allocator is the allocation façade. It holds no per-call state; every
// operation is forwarded to the substrate.
//
// Each operation comes in two forms: Try* returns nil on failure, the plain
// form panics with *OutOfMemoryError and never returns nil.
//
// A zero-size request is forwarded as a 1-byte request, so a successful
// zero-size allocation is a unique non-nil address that must be freed but
// must not be dereferenced.
type Allocator struct {
	substrate Substrate
	logger    *Logger
	metrics   MetricsCollector
}

// New creates an Allocator. Without options it uses a Go-heap substrate,
// no logging, and no metrics.
func New(optFns ...Option) *Allocator {
	o := applyOptions(optFns)

	s := o.substrate
	if s == nil {
		s = substrate.NewHeap()
	}
	if o.memoryLimit > 0 {
		s = substrate.NewBudgeted(s, o.memoryLimit)
	}

	logger := o.logger
	if name, ok := s.(interface{ String() string }); ok {
		logger = logger.WithSubstrate(name.String())
	}

	return &Allocator{
		substrate: s,
		logger:    logger,
		metrics:   o.metrics,
	}
}

// Substrate returns the substrate the allocator forwards to.
func (a *Allocator) Substrate() Substrate {
	return a.substrate
}

// request is one allocation request as seen by the façade.
type request struct {
	size      uintptr
	alignment uintptr
	offset    uintptr
	count     uintptr
	elemSize  uintptr
	zero      bool
}

func (a *Allocator) alloc(req request) unsafe.Pointer {
	checkRequest(req)
	p := a.substrate.Alloc(req.size, req.alignment, req.offset, req.zero)
	a.metrics.RecordAlloc(req.size, p != nil)
	return p
}

func (a *Allocator) realloc(p unsafe.Pointer, req request) unsafe.Pointer {
	checkRequest(req)
	np := a.substrate.Realloc(p, req.size, req.alignment, req.offset, req.zero)
	a.recordRealloc(p, req.size, np != nil)
	return np
}

// recordRealloc counts a reallocation of nil as the allocation it is.
func (a *Allocator) recordRealloc(p unsafe.Pointer, size uintptr, ok bool) {
	if p == nil {
		a.metrics.RecordAlloc(size, ok)
		return
	}
	a.metrics.RecordRealloc(size, ok)
}

func (a *Allocator) tryFailed(op string, req request) {
	a.logger.logAllocFailure(context.Background(), op, req, false)
}

// outOfMemory reports a promoting failure and panics.
func (a *Allocator) outOfMemory(op string, req request) {
	a.logger.logAllocFailure(context.Background(), op, req, true)
	a.metrics.RecordOutOfMemory(req.size)
	panic(&OutOfMemoryError{Size: req.size, Count: req.count, ElementSize: req.elemSize})
}

func (a *Allocator) tryAllocate(req request) unsafe.Pointer {
	p := a.alloc(req)
	if p == nil {
		a.tryFailed("allocate", req)
	}
	return p
}

func (a *Allocator) mustAllocate(req request) unsafe.Pointer {
	p := a.alloc(req)
	if p == nil {
		a.outOfMemory("allocate", req)
	}
	return p
}

func (a *Allocator) tryReallocate(p unsafe.Pointer, req request) unsafe.Pointer {
	np := a.realloc(p, req)
	if np == nil {
		a.tryFailed("reallocate", req)
	}
	return np
}

func (a *Allocator) mustReallocate(p unsafe.Pointer, req request) unsafe.Pointer {
	np := a.realloc(p, req)
	if np == nil {
		a.outOfMemory("reallocate", req)
	}
	return np
}

// TryAllocate allocates size bytes at DefaultAlignment. Returns nil on failure.
func (a *Allocator) TryAllocate(size uintptr, zero bool) unsafe.Pointer {
	return a.tryAllocate(request{size: size, zero: zero})
}

// Allocate allocates size bytes at DefaultAlignment.
// It panics with *OutOfMemoryError on failure.
func (a *Allocator) Allocate(size uintptr, zero bool) unsafe.Pointer {
	return a.mustAllocate(request{size: size, zero: zero})
}

// TryAllocateAligned allocates size bytes at a multiple of alignment.
func (a *Allocator) TryAllocateAligned(size, alignment uintptr, zero bool) unsafe.Pointer {
	return a.tryAllocate(request{size: size, alignment: alignment, zero: zero})
}

// AllocateAligned is the promoting form of TryAllocateAligned.
func (a *Allocator) AllocateAligned(size, alignment uintptr, zero bool) unsafe.Pointer {
	return a.mustAllocate(request{size: size, alignment: alignment, zero: zero})
}

// TryAllocateAlignedAt allocates size bytes such that the byte at offset is
// aligned: (addr + offset) % alignment == 0. offset must be less than alignment.
func (a *Allocator) TryAllocateAlignedAt(size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.tryAllocate(request{size: size, alignment: alignment, offset: offset, zero: zero})
}

// AllocateAlignedAt is the promoting form of TryAllocateAlignedAt.
func (a *Allocator) AllocateAlignedAt(size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.mustAllocate(request{size: size, alignment: alignment, offset: offset, zero: zero})
}

// TryReallocate resizes the region at p to size bytes, preserving the first
// min(old, size) bytes. With zero set, bytes past the old size are zeroed.
// On failure it returns nil and p remains valid and owned by the caller.
// A nil p behaves like TryAllocate.
func (a *Allocator) TryReallocate(p unsafe.Pointer, size uintptr, zero bool) unsafe.Pointer {
	return a.tryReallocate(p, request{size: size, zero: zero})
}

// Reallocate is the promoting form of TryReallocate. The original region is
// not freed when it panics.
func (a *Allocator) Reallocate(p unsafe.Pointer, size uintptr, zero bool) unsafe.Pointer {
	return a.mustReallocate(p, request{size: size, zero: zero})
}

// TryReallocateAligned resizes p and places the result at a multiple of alignment.
func (a *Allocator) TryReallocateAligned(p unsafe.Pointer, size, alignment uintptr, zero bool) unsafe.Pointer {
	return a.tryReallocate(p, request{size: size, alignment: alignment, zero: zero})
}

// ReallocateAligned is the promoting form of TryReallocateAligned.
func (a *Allocator) ReallocateAligned(p unsafe.Pointer, size, alignment uintptr, zero bool) unsafe.Pointer {
	return a.mustReallocate(p, request{size: size, alignment: alignment, zero: zero})
}

// TryReallocateAlignedAt resizes p with aligned-at-offset placement.
func (a *Allocator) TryReallocateAlignedAt(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.tryReallocate(p, request{size: size, alignment: alignment, offset: offset, zero: zero})
}

// ReallocateAlignedAt is the promoting form of TryReallocateAlignedAt.
func (a *Allocator) ReallocateAlignedAt(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.mustReallocate(p, request{size: size, alignment: alignment, offset: offset, zero: zero})
}

// Free releases the region at p. Free(nil) is a no-op. Freeing an address
// twice is undefined; the bundled substrates panic.
func (a *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	a.substrate.Free(p)
	a.metrics.RecordFree()
}
