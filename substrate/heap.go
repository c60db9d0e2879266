package substrate

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/rawmem/internal/mem"
	"github.com/hupe1980/rawmem/internal/simd"
)

// Heap is a substrate over Go-heap buffers.
//
// Each region is carved out of an over-allocated []byte so that the
// aligned-at-offset placement always fits. The buffer stays reachable from
// the registry until Free, so the collector never reclaims a live region.
// Go heap memory is always zeroed on allocation, which makes zero free.
//
// The bytes reserved from the Go heap, padding included, never exceed the
// heap limit. Requests beyond it fail with nil instead of reaching the
// runtime, which aborts the process when it cannot reserve memory.
type Heap struct {
	mu       sync.Mutex
	blocks   map[uintptr]*heapBlock
	stats    atomicStats
	limit    uint64
	reserved atomic.Uint64
}

// HeapOption configures a Heap.
type HeapOption func(*Heap)

// WithHeapLimit caps the bytes a Heap reserves from the Go heap. A limit of
// 0 keeps the default: the Go soft memory limit (debug.SetMemoryLimit) when
// set, otherwise the physical memory size.
func WithHeapLimit(bytes uint64) HeapOption {
	return func(h *Heap) {
		if bytes > 0 {
			h.limit = bytes
		}
	}
}

type heapBlock struct {
	backing []byte
	shift   uintptr // region start within backing
	size    uintptr
	claim   uint64 // bytes counted against the heap limit
}

func newHeapBlock(size, alignment, offset uintptr) *heapBlock {
	aligned, backing := mem.AllocAlignedAt(int(size), alignment, offset)
	shift := uintptr(unsafe.Pointer(&aligned[0])) - uintptr(unsafe.Pointer(&backing[0])) //nolint:gosec // unsafe is required for region placement
	return &heapBlock{
		backing: backing,
		shift:   shift,
		size:    size,
	}
}

func (b *heapBlock) addr() unsafe.Pointer {
	return unsafe.Pointer(&b.backing[b.shift]) //nolint:gosec // unsafe is required for region placement
}

// capacity is the largest size the block can take without moving.
func (b *heapBlock) capacity() uintptr {
	return uintptr(len(b.backing)) - b.shift
}

// NewHeap creates an empty Go-heap substrate.
func NewHeap(optFns ...HeapOption) *Heap {
	h := &Heap{
		blocks: make(map[uintptr]*heapBlock),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(h)
		}
	}
	if h.limit == 0 {
		h.limit = defaultHeapLimit()
	}
	return h
}

// Limit returns the reservation ceiling in bytes.
func (h *Heap) Limit() uint64 {
	return h.limit
}

// reserve claims the backing bytes for a block of size bytes at alignment.
// It returns the claimed amount, or false when the limit would be exceeded.
func (h *Heap) reserve(size, alignment uintptr) (uint64, bool) {
	n := uint64(size) + uint64(mem.Padding(alignment))
	for {
		cur := h.reserved.Load()
		if n > h.limit || cur > h.limit-n {
			return 0, false
		}
		if h.reserved.CompareAndSwap(cur, cur+n) {
			return n, true
		}
	}
}

func (h *Heap) release(n uint64) {
	h.reserved.Add(-n)
}

// String returns the substrate name.
func (h *Heap) String() string { return "heap" }

// Alloc allocates a region of size bytes placed so that (addr+offset) is a
// multiple of alignment. Returns nil if the request cannot be satisfied.
func (h *Heap) Alloc(size, alignment, offset uintptr, _ bool) unsafe.Pointer {
	size, alignment, ok := normalize(size, alignment, offset)
	if !ok {
		h.stats.Failures.Add(1)
		return nil
	}
	claim, ok := h.reserve(size, alignment)
	if !ok {
		h.stats.Failures.Add(1)
		return nil
	}

	blk := newHeapBlock(size, alignment, offset)
	blk.claim = claim
	p := blk.addr()

	h.mu.Lock()
	h.blocks[uintptr(p)] = blk
	h.mu.Unlock()

	h.stats.Allocs.Add(1)
	h.stats.added(size, uintptr(len(blk.backing)))
	return p
}

// Realloc resizes the region at p, moving it when the current buffer cannot
// hold size bytes at the requested placement. On failure p stays valid.
func (h *Heap) Realloc(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	if p == nil {
		return h.Alloc(size, alignment, offset, zero)
	}

	h.mu.Lock()
	blk, found := h.blocks[uintptr(p)]
	h.mu.Unlock()
	if !found {
		panic(unknownAddress("realloc", uintptr(p)))
	}

	size, alignment, ok := normalize(size, alignment, offset)
	if !ok {
		h.stats.Failures.Add(1)
		return nil
	}

	oldSize := blk.size
	if size <= blk.capacity() && mem.IsAlignedAt(uintptr(p), alignment, offset) {
		if zero && size > oldSize {
			simd.Zero(unsafe.Add(p, oldSize), size-oldSize)
		}
		blk.size = size
		h.stats.Reallocs.Add(1)
		h.stats.LiveBytes.Add(uint64(size) - uint64(oldSize))
		return p
	}

	claim, ok := h.reserve(size, alignment)
	if !ok {
		h.stats.Failures.Add(1)
		return nil
	}

	nb := newHeapBlock(size, alignment, offset)
	nb.claim = claim
	np := nb.addr()
	simd.Move(np, p, min(oldSize, size))

	h.mu.Lock()
	delete(h.blocks, uintptr(p))
	h.blocks[uintptr(np)] = nb
	h.mu.Unlock()

	h.release(blk.claim)
	h.stats.Reallocs.Add(1)
	h.stats.removed(oldSize, uintptr(len(blk.backing)))
	h.stats.added(size, uintptr(len(nb.backing)))
	return np
}

// Free releases the region at p. Free(nil) is a no-op.
func (h *Heap) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	h.mu.Lock()
	blk, found := h.blocks[uintptr(p)]
	delete(h.blocks, uintptr(p))
	h.mu.Unlock()
	if !found {
		panic(unknownAddress("free", uintptr(p)))
	}

	h.release(blk.claim)
	h.stats.Frees.Add(1)
	h.stats.removed(blk.size, uintptr(len(blk.backing)))
}

// Size returns the size of the region at p, or 0 if p is not live.
func (h *Heap) Size(p unsafe.Pointer) uintptr {
	h.mu.Lock()
	defer h.mu.Unlock()
	if blk, ok := h.blocks[uintptr(p)]; ok {
		return blk.size
	}
	return 0
}

// Stats returns a snapshot of the substrate counters.
func (h *Heap) Stats() Stats {
	return h.stats.snapshot()
}
