// Package mem provides memory alignment utilities.
//
// # Aligned Allocation
//
// Provides aligned and aligned-at-offset placement arithmetic and Go-heap
// buffers placed at such addresses. An aligned-at-offset block starting at a
// satisfies (a + offset) % align == 0.
package mem
