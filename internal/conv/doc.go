// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed sizes and unsigned addresses.
//
// Use cases:
//   - Converting request sizes (uintptr) into budget units (int64)
//   - Converting user-supplied int sizes into uintptr lengths
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
