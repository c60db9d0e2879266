package substrate

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/rawmem/internal/conv"
	"github.com/hupe1980/rawmem/internal/resource"
)

// Allocator is the substrate contract. It matches rawmem.Substrate.
type Allocator interface {
	Alloc(size, alignment, offset uintptr, zero bool) unsafe.Pointer
	Realloc(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer
	Free(p unsafe.Pointer)
}

var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*Mmap)(nil)
	_ Allocator = (*Budgeted)(nil)
)

// Budgeted enforces a byte limit on top of another substrate. Requests that
// would push the live total above the limit fail with nil without reaching
// the inner substrate.
type Budgeted struct {
	inner Allocator
	rc    *resource.Controller

	mu      sync.Mutex
	charges map[uintptr]int64
}

// NewBudgeted wraps inner with a limit of limitBytes. A limit of 0 only
// tracks usage.
func NewBudgeted(inner Allocator, limitBytes int64) *Budgeted {
	return &Budgeted{
		inner:   inner,
		rc:      resource.NewController(resource.Config{MemoryLimitBytes: limitBytes}),
		charges: make(map[uintptr]int64),
	}
}

// String returns the substrate name.
func (b *Budgeted) String() string {
	if s, ok := b.inner.(interface{ String() string }); ok {
		return "budgeted(" + s.String() + ")"
	}
	return "budgeted"
}

// charge converts a request size into budget units. Zero-size requests
// occupy one byte, matching normalize.
func charge(size uintptr) (int64, bool) {
	if size == 0 {
		size = 1
	}
	c, err := conv.UintptrToInt64(size)
	return c, err == nil
}

// Alloc reserves budget for size bytes and forwards to the inner substrate.
func (b *Budgeted) Alloc(size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	c, ok := charge(size)
	if !ok {
		return nil
	}
	if err := b.rc.AcquireMemory(c); err != nil {
		return nil
	}

	p := b.inner.Alloc(size, alignment, offset, zero)
	if p == nil {
		b.rc.ReleaseMemory(c)
		return nil
	}

	b.mu.Lock()
	b.charges[uintptr(p)] = c
	b.mu.Unlock()
	return p
}

// Realloc reserves the growth delta before forwarding and releases the
// shrink delta after the inner substrate succeeds.
func (b *Budgeted) Realloc(p unsafe.Pointer, size, alignment, offset uintptr, zero bool) unsafe.Pointer {
	if p == nil {
		return b.Alloc(size, alignment, offset, zero)
	}

	b.mu.Lock()
	old, found := b.charges[uintptr(p)]
	b.mu.Unlock()
	if !found {
		panic(unknownAddress("realloc", uintptr(p)))
	}

	c, ok := charge(size)
	if !ok {
		return nil
	}

	var grow int64
	if c > old {
		grow = c - old
		if err := b.rc.AcquireMemory(grow); err != nil {
			return nil
		}
	}

	np := b.inner.Realloc(p, size, alignment, offset, zero)
	if np == nil {
		b.rc.ReleaseMemory(grow)
		return nil
	}
	if c < old {
		b.rc.ReleaseMemory(old - c)
	}

	b.mu.Lock()
	delete(b.charges, uintptr(p))
	b.charges[uintptr(np)] = c
	b.mu.Unlock()
	return np
}

// Free forwards to the inner substrate and returns the region's budget.
func (b *Budgeted) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}

	b.mu.Lock()
	c, found := b.charges[uintptr(p)]
	delete(b.charges, uintptr(p))
	b.mu.Unlock()
	if !found {
		panic(unknownAddress("free", uintptr(p)))
	}

	b.inner.Free(p)
	b.rc.ReleaseMemory(c)
}

// Usage returns the bytes currently charged against the budget.
func (b *Budgeted) Usage() int64 {
	return b.rc.MemoryUsage()
}

// PeakUsage returns the highest charged total observed.
func (b *Budgeted) PeakUsage() int64 {
	return b.rc.PeakMemoryUsage()
}

// Limit returns the configured limit (0 if unlimited).
func (b *Budgeted) Limit() int64 {
	return b.rc.MemoryLimit()
}
