package simd

import "unsafe"

const (
	// tinyMax is the largest length handled by the chunk dispatch alone.
	tinyMax = 32
	// blockBytes is the sub-block size of the trailing routines.
	blockBytes = 32
	// stripeLanes is the number of lanes loaded before any of them is stored.
	stripeLanes = 8
)

// lane is a fixed-size byte vector. Arrays of byte have alignment 1, so
// lanes may be loaded from and stored to any address.
type lane interface {
	[8]byte | [16]byte | [32]byte | [64]byte
}

// load reads one L-sized chunk at base+off.
func load[L lane](base unsafe.Pointer, off uintptr) L {
	return *(*L)(unsafe.Add(base, off))
}

// store writes one L-sized chunk at base+off.
func store[L lane](base unsafe.Pointer, off uintptr, v L) {
	*(*L)(unsafe.Add(base, off)) = v
}

// Offsets are carried next to the base pointers so no pointer is ever
// advanced to the end of its allocation.

// copyForward copies n bytes in ascending address order. It is correct for
// disjoint regions and for overlapping regions with src >= dst.
func copyForward[L lane](dst, src unsafe.Pointer, n uintptr) {
	if n <= tinyMax {
		copyTiny(dst, src, 0, n)
		return
	}

	var z L
	size := unsafe.Sizeof(z)
	stride := size * stripeLanes

	var off uintptr
	for ; n-off >= stride; off += stride {
		v0 := load[L](src, off)
		v1 := load[L](src, off+size)
		v2 := load[L](src, off+2*size)
		v3 := load[L](src, off+3*size)
		v4 := load[L](src, off+4*size)
		v5 := load[L](src, off+5*size)
		v6 := load[L](src, off+6*size)
		v7 := load[L](src, off+7*size)
		store(dst, off, v0)
		store(dst, off+size, v1)
		store(dst, off+2*size, v2)
		store(dst, off+3*size, v3)
		store(dst, off+4*size, v4)
		store(dst, off+5*size, v5)
		store(dst, off+6*size, v6)
		store(dst, off+7*size, v7)
	}

	copyTrailing(dst, src, off, n-off)
}

// copyBackward copies n bytes in descending address order. It is the
// required direction when src < dst and the regions overlap.
func copyBackward[L lane](dst, src unsafe.Pointer, n uintptr) {
	if n <= tinyMax {
		copyTiny(dst, src, 0, n)
		return
	}

	var z L
	size := unsafe.Sizeof(z)
	stride := size * stripeLanes

	end := n
	for end >= stride {
		end -= stride
		v7 := load[L](src, end+7*size)
		v6 := load[L](src, end+6*size)
		v5 := load[L](src, end+5*size)
		v4 := load[L](src, end+4*size)
		v3 := load[L](src, end+3*size)
		v2 := load[L](src, end+2*size)
		v1 := load[L](src, end+size)
		v0 := load[L](src, end)
		store(dst, end+7*size, v7)
		store(dst, end+6*size, v6)
		store(dst, end+5*size, v5)
		store(dst, end+4*size, v4)
		store(dst, end+3*size, v3)
		store(dst, end+2*size, v2)
		store(dst, end+size, v1)
		store(dst, end, v0)
	}

	copyLeading(dst, src, end)
}

// copyTrailing copies [off, off+n) in ascending 32-byte blocks and finishes
// with the tiny path.
func copyTrailing(dst, src unsafe.Pointer, off, n uintptr) {
	for n > tinyMax {
		v := load[[blockBytes]byte](src, off)
		store(dst, off, v)
		off += blockBytes
		n -= blockBytes
	}
	copyTiny(dst, src, off, n)
}

// copyLeading copies [0, n) in descending 32-byte blocks and finishes with
// the tiny path at offset 0.
func copyLeading(dst, src unsafe.Pointer, n uintptr) {
	for n > tinyMax {
		n -= blockBytes
		v := load[[blockBytes]byte](src, n)
		store(dst, n, v)
	}
	copyTiny(dst, src, 0, n)
}

// copyTiny copies [off, off+n) for n <= 32. Lengths between two chunk sizes
// use a pair of chunks anchored at the start and at the end of the range.
// Both chunks are loaded before either store, so the copy is correct for
// any overlap.
func copyTiny(dst, src unsafe.Pointer, off, n uintptr) {
	switch {
	case n >= 16:
		a := load[[16]byte](src, off)
		b := load[[16]byte](src, off+n-16)
		store(dst, off, a)
		store(dst, off+n-16, b)
	case n >= 8:
		a := load[[8]byte](src, off)
		b := load[[8]byte](src, off+n-8)
		store(dst, off, a)
		store(dst, off+n-8, b)
	case n >= 4:
		a := *(*[4]byte)(unsafe.Add(src, off))
		b := *(*[4]byte)(unsafe.Add(src, off+n-4))
		*(*[4]byte)(unsafe.Add(dst, off)) = a
		*(*[4]byte)(unsafe.Add(dst, off+n-4)) = b
	case n >= 2:
		a := *(*[2]byte)(unsafe.Add(src, off))
		b := *(*[2]byte)(unsafe.Add(src, off+n-2))
		*(*[2]byte)(unsafe.Add(dst, off)) = a
		*(*[2]byte)(unsafe.Add(dst, off+n-2)) = b
	case n == 1:
		*(*byte)(unsafe.Add(dst, off)) = *(*byte)(unsafe.Add(src, off))
	}
}

// Overlaps reports whether a forward copy of n bytes from src to dst would
// overwrite source bytes before reading them.
func Overlaps(dst, src unsafe.Pointer, n uintptr) bool {
	d, s := uintptr(dst), uintptr(src)
	return s < d && s+n > d
}
