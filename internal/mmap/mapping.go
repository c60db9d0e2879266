package mmap

import (
	"os"
	"sync/atomic"
	"unsafe"
)

// Mapping represents an anonymous memory mapping.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// MapAnon creates a private read-write anonymous mapping of at least size
// bytes, rounded up to the page size. The memory is zero-filled.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	size = RoundToPage(size)

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
	}, nil
}

// PageSize returns the system page size.
func PageSize() int {
	return os.Getpagesize()
}

// RoundToPage rounds size up to a multiple of the page size.
func RoundToPage(size int) int {
	page := PageSize()
	return (size + page - 1) &^ (page - 1)
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
// Accessing the slice after Close() results in undefined behavior (likely a crash).
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Addr returns the start address of the mapping.
func (m *Mapping) Addr() unsafe.Pointer {
	if m.closed.Load() || len(m.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&m.data[0]) //nolint:gosec // unsafe is required for off-heap addressing
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}
