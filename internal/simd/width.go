package simd

// Width is a lane width tier. Every tier runs the same tiered algorithm;
// only the lane size of the strided loop differs.
type Width uint8

const (
	// Scalar moves 8-byte words; used when no vector unit was detected.
	Scalar Width = iota
	// Vector128 moves 16-byte lanes (SSE2, NEON, SVE2).
	Vector128
	// Vector256 moves 32-byte lanes (AVX2).
	Vector256
	// Vector512 moves 64-byte lanes (AVX-512).
	Vector512

	numWidths
)

// Widths lists every tier in ascending order.
var Widths = [...]Width{Scalar, Vector128, Vector256, Vector512}

// String returns the string representation of a Width.
func (w Width) String() string {
	switch w {
	case Scalar:
		return "scalar"
	case Vector128:
		return "v128"
	case Vector256:
		return "v256"
	case Vector512:
		return "v512"
	default:
		return "unknown"
	}
}

// LaneBytes returns the size of one lane in bytes.
func (w Width) LaneBytes() int {
	switch w {
	case Vector128:
		return 16
	case Vector256:
		return 32
	case Vector512:
		return 64
	default:
		return 8
	}
}

// StrideBytes returns the bytes moved per iteration of the strided loop.
// A stride is always 8 lanes, so it scales with the lane width: 128 bytes
// at Vector128, 64 at Scalar, up to 512 at Vector512.
func (w Width) StrideBytes() int {
	return w.LaneBytes() * stripeLanes
}
