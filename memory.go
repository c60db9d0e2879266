package rawmem

import (
	"unsafe"

	"github.com/hupe1980/rawmem/internal/simd"
)

// Copy copies n bytes from src to dst with memmove semantics: the result is
// correct when the regions overlap in either direction.
//
// n == 0 is a no-op for any pointers, including nil. Otherwise a nil dst or
// src panics with *NullArgumentError.
func Copy(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	if dst == nil {
		panic(&NullArgumentError{Name: "destination"})
	}
	if src == nil {
		panic(&NullArgumentError{Name: "source"})
	}
	simd.Move(dst, src, n)
}

// CopyUnsafe is Copy without argument checks. Passing nil with n != 0 is
// undefined.
func CopyUnsafe(dst, src unsafe.Pointer, n uintptr) {
	simd.Move(dst, src, n)
}

// CopyBounded copies srcLen bytes from src into dst, which holds dstCap
// bytes. It panics with *OutOfRangeError when srcLen > dstCap.
func CopyBounded(dst unsafe.Pointer, dstCap uintptr, src unsafe.Pointer, srcLen uintptr) {
	if srcLen > dstCap {
		panic(&OutOfRangeError{Name: "sourceLength", Value: srcLen, Limit: dstCap})
	}
	Copy(dst, src, srcLen)
}

// CopyBytes copies src into dst and panics with *OutOfRangeError when src
// does not fit. Unlike the builtin copy it never truncates.
func CopyBytes(dst, src []byte) {
	if len(src) > len(dst) {
		panic(&OutOfRangeError{Name: "sourceLength", Value: uintptr(len(src)), Limit: uintptr(len(dst))})
	}
	if len(src) == 0 {
		return
	}
	simd.Move(unsafe.Pointer(unsafe.SliceData(dst)), unsafe.Pointer(unsafe.SliceData(src)), uintptr(len(src)))
}

// Clear writes n zero bytes at dst. n == 0 is a no-op for any pointer;
// otherwise a nil dst panics with *NullArgumentError.
func Clear(dst unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	if dst == nil {
		panic(&NullArgumentError{Name: "destination"})
	}
	simd.Zero(dst, n)
}

// ClearUnsafe is Clear without argument checks.
func ClearUnsafe(dst unsafe.Pointer, n uintptr) {
	simd.Zero(dst, n)
}

// ClearBytes zeroes b.
func ClearBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	simd.Zero(unsafe.Pointer(unsafe.SliceData(b)), uintptr(len(b)))
}
