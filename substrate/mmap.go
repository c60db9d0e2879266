package substrate

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/rawmem/internal/conv"
	"github.com/hupe1980/rawmem/internal/mem"
	"github.com/hupe1980/rawmem/internal/mmap"
	"github.com/hupe1980/rawmem/internal/simd"
)

// Mmap is an off-heap substrate: every region lives in its own anonymous
// mapping, page rounded, and is unmapped on Free. Fresh mappings are zero
// filled, so zero costs nothing on Alloc.
type Mmap struct {
	mu     sync.Mutex
	blocks map[uintptr]*mmapBlock
	stats  atomicStats
}

type mmapBlock struct {
	mapping *mmap.Mapping
	shift   uintptr
	size    uintptr
}

func newMmapBlock(size, alignment, offset uintptr) (*mmapBlock, error) {
	total, err := conv.UintptrToInt(size + mem.Padding(alignment))
	if err != nil {
		return nil, err
	}

	m, err := mmap.MapAnon(total)
	if err != nil {
		return nil, err
	}

	base := uintptr(m.Addr())
	return &mmapBlock{
		mapping: m,
		shift:   mem.AlignUpAt(base, alignment, offset) - base,
		size:    size,
	}, nil
}

func (b *mmapBlock) addr() unsafe.Pointer {
	return unsafe.Add(b.mapping.Addr(), b.shift)
}

func (b *mmapBlock) capacity() uintptr {
	return uintptr(b.mapping.Size()) - b.shift
}

// NewMmap creates an empty off-heap substrate.
func NewMmap() *Mmap {
	return &Mmap{
		blocks: make(map[uintptr]*mmapBlock),
	}
}

// String returns the substrate name.
func (m *Mmap) String() string { return "mmap" }

// Alloc maps a new region. Returns nil if the request is invalid or the
// mapping fails.
func (m *Mmap) Alloc(size, alignment, offset uintptr, _ bool) unsafe.Pointer {
	size, alignment, ok := normalize(size, alignment, offset)
	if !ok {
		m.stats.Failures.Add(1)
		return nil
	}

	blk, err := newMmapBlock(size, alignment, offset)
	if err != nil {
		m.stats.Failures.Add(1)
		return nil
	}
	p := blk.addr()

	m.mu.Lock()
	m.blocks[uintptr(p)] = blk
	m.mu.Unlock()

	m.stats.Allocs.Add(1)
	m.stats.added(size, uintptr(blk.mapping.Size()))
	return p
}

// Realloc resizes the region at p. It stays in place while the mapping has
// room at the requested placement; otherwise the contents move to a new
// mapping and the old one is unmapped. On failure p stays valid.
func (m *Mmap) Realloc(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	if p == nil {
		return m.Alloc(size, alignment, offset, zero)
	}

	m.mu.Lock()
	blk, found := m.blocks[uintptr(p)]
	m.mu.Unlock()
	if !found {
		panic(unknownAddress("realloc", uintptr(p)))
	}

	size, alignment, ok := normalize(size, alignment, offset)
	if !ok {
		m.stats.Failures.Add(1)
		return nil
	}

	oldSize := blk.size
	if size <= blk.capacity() && mem.IsAlignedAt(uintptr(p), alignment, offset) {
		// Bytes past oldSize may hold data from before an earlier shrink.
		if zero && size > oldSize {
			simd.Zero(unsafe.Add(p, oldSize), size-oldSize)
		}
		blk.size = size
		m.stats.Reallocs.Add(1)
		m.stats.LiveBytes.Add(uint64(size) - uint64(oldSize))
		return p
	}

	nb, err := newMmapBlock(size, alignment, offset)
	if err != nil {
		m.stats.Failures.Add(1)
		return nil
	}
	np := nb.addr()
	simd.Move(np, p, min(oldSize, size))

	m.mu.Lock()
	delete(m.blocks, uintptr(p))
	m.blocks[uintptr(np)] = nb
	m.mu.Unlock()

	_ = blk.mapping.Close()

	m.stats.Reallocs.Add(1)
	m.stats.removed(oldSize, uintptr(blk.mapping.Size()))
	m.stats.added(size, uintptr(nb.mapping.Size()))
	return np
}

// Free unmaps the region at p. Free(nil) is a no-op.
func (m *Mmap) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	m.mu.Lock()
	blk, found := m.blocks[uintptr(p)]
	delete(m.blocks, uintptr(p))
	m.mu.Unlock()
	if !found {
		panic(unknownAddress("free", uintptr(p)))
	}

	_ = blk.mapping.Close()

	m.stats.Frees.Add(1)
	m.stats.removed(blk.size, uintptr(blk.mapping.Size()))
}

// Size returns the size of the region at p, or 0 if p is not live.
func (m *Mmap) Size(p unsafe.Pointer) uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if blk, ok := m.blocks[uintptr(p)]; ok {
		return blk.size
	}
	return 0
}

// Stats returns a snapshot of the substrate counters.
func (m *Mmap) Stats() Stats {
	return m.stats.snapshot()
}
