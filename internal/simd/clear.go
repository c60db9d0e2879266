package simd

import "unsafe"

// clearStrided zeroes n bytes using the same tiers as copyForward.
func clearStrided[L lane](dst unsafe.Pointer, n uintptr) {
	if n <= tinyMax {
		clearTiny(dst, 0, n)
		return
	}

	var z L
	size := unsafe.Sizeof(z)
	stride := size * stripeLanes

	var off uintptr
	for ; n-off >= stride; off += stride {
		store(dst, off, z)
		store(dst, off+size, z)
		store(dst, off+2*size, z)
		store(dst, off+3*size, z)
		store(dst, off+4*size, z)
		store(dst, off+5*size, z)
		store(dst, off+6*size, z)
		store(dst, off+7*size, z)
	}

	clearTrailing(dst, off, n-off)
}

func clearTrailing(dst unsafe.Pointer, off, n uintptr) {
	var z [blockBytes]byte
	for n > tinyMax {
		store(dst, off, z)
		off += blockBytes
		n -= blockBytes
	}
	clearTiny(dst, off, n)
}

// clearTiny zeroes [off, off+n) for n <= 32 with the same anchored chunk
// pairs as copyTiny.
func clearTiny(dst unsafe.Pointer, off, n uintptr) {
	switch {
	case n >= 16:
		store(dst, off, [16]byte{})
		store(dst, off+n-16, [16]byte{})
	case n >= 8:
		store(dst, off, [8]byte{})
		store(dst, off+n-8, [8]byte{})
	case n >= 4:
		*(*[4]byte)(unsafe.Add(dst, off)) = [4]byte{}
		*(*[4]byte)(unsafe.Add(dst, off+n-4)) = [4]byte{}
	case n >= 2:
		*(*[2]byte)(unsafe.Add(dst, off)) = [2]byte{}
		*(*[2]byte)(unsafe.Add(dst, off+n-2)) = [2]byte{}
	case n == 1:
		*(*byte)(unsafe.Add(dst, off)) = 0
	}
}
