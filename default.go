package rawmem

import (
	"sync"
	"unsafe"
)

var (
	defaultOnce      sync.Once
	defaultAllocator *Allocator
)

// Default returns the process-wide allocator used by the package-level
// functions. It uses the Go-heap substrate with logging and metrics disabled.
func Default() *Allocator {
	defaultOnce.Do(func() {
		defaultAllocator = New()
	})
	return defaultAllocator
}

// TryAllocate calls Default().TryAllocate.
func TryAllocate(size uintptr, zero bool) unsafe.Pointer {
	return Default().TryAllocate(size, zero)
}

// Allocate calls Default().Allocate.
func Allocate(size uintptr, zero bool) unsafe.Pointer {
	return Default().Allocate(size, zero)
}

// AllocateAligned calls Default().AllocateAligned.
func AllocateAligned(size, alignment uintptr, zero bool) unsafe.Pointer {
	return Default().AllocateAligned(size, alignment, zero)
}

// AllocateAlignedAt calls Default().AllocateAlignedAt.
func AllocateAlignedAt(size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	return Default().AllocateAlignedAt(size, alignment, offset, zero)
}

// AllocateArray calls Default().AllocateArray.
func AllocateArray(count, elemSize uintptr, zero bool) unsafe.Pointer {
	return Default().AllocateArray(count, elemSize, zero)
}

// TryReallocate calls Default().TryReallocate.
func TryReallocate(p unsafe.Pointer, size uintptr, zero bool) unsafe.Pointer {
	return Default().TryReallocate(p, size, zero)
}

// Reallocate calls Default().Reallocate.
func Reallocate(p unsafe.Pointer, size uintptr, zero bool) unsafe.Pointer {
	return Default().Reallocate(p, size, zero)
}

// ReallocateArray calls Default().ReallocateArray.
func ReallocateArray(p unsafe.Pointer, count, elemSize uintptr, zero bool) unsafe.Pointer {
	return Default().ReallocateArray(p, count, elemSize, zero)
}

// Free calls Default().Free.
func Free(p unsafe.Pointer) {
	Default().Free(p)
}
