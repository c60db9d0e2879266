// Package simd provides width-tiered bulk memory kernels.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2, SSE2
//   - ARM64: NEON, SVE2
//
// Runtime CPU feature detection produces a capability Token once at init.
// The token selects one entry of a fixed dispatch table keyed by lane width.
// Set RAWMEM_SIMD to pin an available ISA, or build with -tags noasm to
// force the scalar tier.
//
// # Operations
//
//   - Move: memmove semantics, overlap safe in both directions
//   - Zero: memset-zero semantics
//
// # Tiers
//
// Lengths up to 32 bytes are handled by anchored chunk pairs. Longer
// lengths run 8-lane strides (128 bytes at 128-bit width) followed by
// 32-byte trailing blocks. Overlap with src < dst runs the same tiers from
// the end of the region down.
package simd
