package rawmem

import (
	"math/bits"
	"unsafe"
)

// arrayRequest builds the request for count elements of elemSize bytes.
// ok is false when the product overflows.
func arrayRequest(count, elemSize, alignment, offset uintptr, zero bool) (request, bool) {
	hi, lo := bits.Mul(uint(count), uint(elemSize))
	req := request{
		size:      uintptr(lo),
		alignment: alignment,
		offset:    offset,
		count:     count,
		elemSize:  elemSize,
		zero:      zero,
	}
	if hi != 0 {
		req.size = 0
		return req, false
	}
	return req, true
}

func (a *Allocator) tryAllocateArray(count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	req, ok := arrayRequest(count, elemSize, alignment, offset, zero)
	if !ok {
		a.metrics.RecordAlloc(0, false)
		a.tryFailed("allocate_array", req)
		return nil
	}
	return a.tryAllocate(req)
}

func (a *Allocator) mustAllocateArray(count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	req, ok := arrayRequest(count, elemSize, alignment, offset, zero)
	if !ok {
		a.metrics.RecordAlloc(0, false)
		a.outOfMemory("allocate_array", req)
	}
	return a.mustAllocate(req)
}

func (a *Allocator) tryReallocateArray(p unsafe.Pointer, count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	req, ok := arrayRequest(count, elemSize, alignment, offset, zero)
	if !ok {
		a.recordRealloc(p, 0, false)
		a.tryFailed("reallocate_array", req)
		return nil
	}
	return a.tryReallocate(p, req)
}

func (a *Allocator) mustReallocateArray(p unsafe.Pointer, count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	req, ok := arrayRequest(count, elemSize, alignment, offset, zero)
	if !ok {
		a.recordRealloc(p, 0, false)
		a.outOfMemory("reallocate_array", req)
	}
	return a.mustReallocate(p, req)
}

// TryAllocateArray allocates count*elemSize bytes. Returns nil on failure,
// including when the product overflows.
func (a *Allocator) TryAllocateArray(count, elemSize uintptr, zero bool) unsafe.Pointer {
	return a.tryAllocateArray(count, elemSize, 0, 0, zero)
}

// AllocateArray is the promoting form of TryAllocateArray. The panic value
// carries count and elemSize separately.
func (a *Allocator) AllocateArray(count, elemSize uintptr, zero bool) unsafe.Pointer {
	return a.mustAllocateArray(count, elemSize, 0, 0, zero)
}

// TryAllocateArrayAligned allocates count*elemSize bytes at a multiple of alignment.
func (a *Allocator) TryAllocateArrayAligned(count, elemSize, alignment uintptr, zero bool) unsafe.Pointer {
	return a.tryAllocateArray(count, elemSize, alignment, 0, zero)
}

// AllocateArrayAligned is the promoting form of TryAllocateArrayAligned.
func (a *Allocator) AllocateArrayAligned(count, elemSize, alignment uintptr, zero bool) unsafe.Pointer {
	return a.mustAllocateArray(count, elemSize, alignment, 0, zero)
}

// TryAllocateArrayAlignedAt allocates count*elemSize bytes with
// aligned-at-offset placement.
func (a *Allocator) TryAllocateArrayAlignedAt(count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.tryAllocateArray(count, elemSize, alignment, offset, zero)
}

// AllocateArrayAlignedAt is the promoting form of TryAllocateArrayAlignedAt.
func (a *Allocator) AllocateArrayAlignedAt(count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.mustAllocateArray(count, elemSize, alignment, offset, zero)
}

// TryReallocateArray resizes p to count*elemSize bytes.
func (a *Allocator) TryReallocateArray(p unsafe.Pointer, count, elemSize uintptr, zero bool) unsafe.Pointer {
	return a.tryReallocateArray(p, count, elemSize, 0, 0, zero)
}

// ReallocateArray is the promoting form of TryReallocateArray.
func (a *Allocator) ReallocateArray(p unsafe.Pointer, count, elemSize uintptr, zero bool) unsafe.Pointer {
	return a.mustReallocateArray(p, count, elemSize, 0, 0, zero)
}

// TryReallocateArrayAligned resizes p to count*elemSize bytes at a multiple of alignment.
func (a *Allocator) TryReallocateArrayAligned(p unsafe.Pointer, count, elemSize, alignment uintptr, zero bool) unsafe.Pointer {
	return a.tryReallocateArray(p, count, elemSize, alignment, 0, zero)
}

// ReallocateArrayAligned is the promoting form of TryReallocateArrayAligned.
func (a *Allocator) ReallocateArrayAligned(p unsafe.Pointer, count, elemSize, alignment uintptr, zero bool) unsafe.Pointer {
	return a.mustReallocateArray(p, count, elemSize, alignment, 0, zero)
}

// TryReallocateArrayAlignedAt resizes p with aligned-at-offset placement.
func (a *Allocator) TryReallocateArrayAlignedAt(p unsafe.Pointer, count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.tryReallocateArray(p, count, elemSize, alignment, offset, zero)
}

// ReallocateArrayAlignedAt is the promoting form of TryReallocateArrayAlignedAt.
func (a *Allocator) ReallocateArrayAlignedAt(p unsafe.Pointer, count, elemSize, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return a.mustReallocateArray(p, count, elemSize, alignment, offset, zero)
}

// MakeSlice allocates a []T of length and capacity n from a, aligned for T.
// T must not contain Go pointers: the collector does not scan the region.
// It panics with *OutOfMemoryError on failure and *ContractError if n < 0.
func MakeSlice[T any](a *Allocator, n int, zero bool) []T {
	if n < 0 {
		panic(&ContractError{Msg: "negative slice length"})
	}
	var z T
	p := a.AllocateArrayAligned(uintptr(n), unsafe.Sizeof(z), unsafe.Alignof(z), zero)
	return unsafe.Slice((*T)(p), n)
}

// GrowSlice reallocates s to length and capacity n, preserving the first
// min(len(s), n) elements. s must come from MakeSlice or GrowSlice on a.
func GrowSlice[T any](a *Allocator, s []T, n int, zero bool) []T {
	if n < 0 {
		panic(&ContractError{Msg: "negative slice length"})
	}
	var z T
	p := a.ReallocateArrayAligned(unsafe.Pointer(unsafe.SliceData(s)), uintptr(n), unsafe.Sizeof(z), unsafe.Alignof(z), zero)
	return unsafe.Slice((*T)(p), n)
}

// FreeSlice releases a slice obtained from MakeSlice or GrowSlice on a.
func FreeSlice[T any](a *Allocator, s []T) {
	if s == nil {
		return
	}
	a.Free(unsafe.Pointer(unsafe.SliceData(s)))
}
