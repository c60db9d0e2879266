// Package mem provides memory alignment utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment required for AVX-512 (64 bytes).
const Alignment = 64

// IsPow2 reports whether v is a non-zero power of two.
func IsPow2(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

// AlignUp rounds v up to the next multiple of align. align MUST be a power of two.
func AlignUp(v, align uintptr) uintptr {
	return (v + align - 1) &^ (align - 1)
}

// AlignUpAt returns the smallest address a >= addr such that
// (a + offset) is a multiple of align. align MUST be a power of two.
func AlignUpAt(addr, align, offset uintptr) uintptr {
	return AlignUp(addr+offset, align) - offset
}

// IsAlignedAt reports whether (addr + offset) is a multiple of align.
func IsAlignedAt(addr, align, offset uintptr) bool {
	return (addr+offset)&(align-1) == 0
}

// Padding returns the worst-case extra bytes needed to place an
// aligned-at-offset block inside an arbitrarily aligned buffer.
func Padding(align uintptr) uintptr {
	if align <= 1 {
		return 0
	}
	return align - 1
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
func AllocAligned(size int) []byte {
	buf, _ := AllocAlignedAt(size, Alignment, 0)
	return buf
}

// AllocAlignedAt allocates a Go-heap byte slice of the given size whose byte
// at index offset is aligned to align. It also returns the backing buffer,
// which must be kept reachable for as long as the slice is in use.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
func AllocAlignedAt(size int, align, offset uintptr) (aligned, backing []byte) {
	if size <= 0 {
		return nil, nil
	}

	// Allocate size + padding to ensure we can find an aligned start
	pad := Padding(align)
	backing = make([]byte, uintptr(size)+pad)

	base := uintptr(unsafe.Pointer(&backing[0])) //nolint:gosec // unsafe is required for memory alignment
	shift := AlignUpAt(base, align, offset) - base

	return backing[shift : shift+uintptr(size) : shift+uintptr(size)], backing
}
