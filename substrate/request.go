package substrate

import (
	"math/bits"

	"github.com/hupe1980/rawmem/internal/mem"
)

// DefaultAlignment is used when a request passes alignment 0. It covers
// every Go scalar type and 16-byte vector lanes.
const DefaultAlignment = 16

// maxRequest bounds a single request so size arithmetic never wraps.
const maxRequest uintptr = 1 << (30 + 16*(bits.UintSize/64))

// normalize applies the substrate conventions to a request: size 0 becomes
// 1 byte and alignment 0 becomes DefaultAlignment. ok is false when the
// request can never be satisfied.
func normalize(size, alignment, offset uintptr) (uintptr, uintptr, bool) {
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	if !mem.IsPow2(alignment) || offset >= alignment {
		return 0, 0, false
	}
	if size == 0 {
		size = 1
	}
	if size > maxRequest || alignment > maxRequest {
		return 0, 0, false
	}
	return size, alignment, true
}
