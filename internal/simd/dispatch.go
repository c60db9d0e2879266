package simd

import "unsafe"

// Kernels is one entry of the width dispatch table.
type Kernels struct {
	Width Width
	// CopyForward copies in ascending order; safe unless src < dst overlap.
	CopyForward func(dst, src unsafe.Pointer, n uintptr)
	// CopyBackward copies in descending order; safe for src < dst overlap.
	CopyBackward func(dst, src unsafe.Pointer, n uintptr)
	// Clear zeroes n bytes.
	Clear func(dst unsafe.Pointer, n uintptr)
}

// table is the closed set of strategies, keyed by width. It is never mutated.
var table = [numWidths]Kernels{
	Scalar: {
		Width:        Scalar,
		CopyForward:  copyForward[[8]byte],
		CopyBackward: copyBackward[[8]byte],
		Clear:        clearStrided[[8]byte],
	},
	Vector128: {
		Width:        Vector128,
		CopyForward:  copyForward[[16]byte],
		CopyBackward: copyBackward[[16]byte],
		Clear:        clearStrided[[16]byte],
	},
	Vector256: {
		Width:        Vector256,
		CopyForward:  copyForward[[32]byte],
		CopyBackward: copyBackward[[32]byte],
		Clear:        clearStrided[[32]byte],
	},
	Vector512: {
		Width:        Vector512,
		CopyForward:  copyForward[[64]byte],
		CopyBackward: copyBackward[[64]byte],
		Clear:        clearStrided[[64]byte],
	},
}

// active is selected from the token during init and read-only afterwards.
var active = &table[Scalar]

// Select returns the table entry for the token's width.
func Select(t Token) *Kernels {
	return ForWidth(t.Width)
}

// ForWidth returns the table entry for w. Unknown widths map to Scalar.
func ForWidth(w Width) *Kernels {
	if w >= numWidths {
		w = Scalar
	}
	return &table[w]
}

// Active returns the kernels selected for this process.
func Active() *Kernels {
	return active
}

// Move copies n bytes from src to dst with memmove semantics.
//
// SAFETY: Both regions MUST be valid for n bytes. No nil checks.
func (k *Kernels) Move(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 || dst == src {
		return
	}
	if Overlaps(dst, src, n) {
		k.CopyBackward(dst, src, n)
		return
	}
	k.CopyForward(dst, src, n)
}

// Zero writes n zero bytes at dst.
//
// SAFETY: dst MUST be valid for n bytes. No nil checks.
func (k *Kernels) Zero(dst unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	k.Clear(dst, n)
}

// Move copies n bytes with the active kernels.
func Move(dst, src unsafe.Pointer, n uintptr) {
	active.Move(dst, src, n)
}

// Zero clears n bytes with the active kernels.
func Zero(dst unsafe.Pointer, n uintptr) {
	active.Zero(dst, n)
}
