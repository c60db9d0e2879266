package rawmem

import "github.com/hupe1980/rawmem/internal/simd"

// Capability describes the kernel tier selected for Copy and Clear.
type Capability struct {
	// ISA is the instruction set the token was derived from, e.g. "avx2".
	ISA string
	// Width is the kernel tier: "scalar", "v128", "v256" or "v512".
	Width string
	// LaneBytes is the width of one lane.
	LaneBytes int
	// StrideBytes is the bytes moved per unrolled stride.
	StrideBytes int
	// Overridden reports whether RAWMEM_SIMD selected the ISA.
	Overridden bool
}

// Capabilities returns the capability probed at process start. The value
// never changes for the lifetime of the process.
func Capabilities() Capability {
	t := simd.Capability()
	return Capability{
		ISA:         t.ISA.String(),
		Width:       t.Width.String(),
		LaneBytes:   t.Width.LaneBytes(),
		StrideBytes: t.Width.StrideBytes(),
		Overridden:  t.Overridden,
	}
}
