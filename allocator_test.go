package rawmem

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rawmem/substrate"
)

func substrates() map[string]func() Substrate {
	return map[string]func() Substrate{
		"heap": func() Substrate { return substrate.NewHeap() },
		"mmap": func() Substrate { return substrate.NewMmap() },
	}
}

func TestAllocateAlignedAt_Property(t *testing.T) {
	for name, newSubstrate := range substrates() {
		t.Run(name, func(t *testing.T) {
			a := New(WithSubstrate(newSubstrate()))
			for _, alignment := range []uintptr{1, 2, 8, 16, 64, 256, 4096} {
				for _, offset := range []uintptr{0, 1, alignment / 2, alignment - 1} {
					if offset >= alignment {
						continue
					}
					for _, size := range []uintptr{0, 1, 7, 33, 129, 1000} {
						p := a.AllocateAlignedAt(size, alignment, offset, true)
						require.NotNil(t, p)
						assert.Zero(t, (uintptr(p)+offset)%alignment,
							"size=%d alignment=%d offset=%d", size, alignment, offset)

						b := region(p, size)
						for i := range b {
							require.Zero(t, b[i])
						}
						fill(b, 0xAB)
						a.Free(p)
					}
				}
			}
		})
	}
}

func TestAllocate_DefaultAlignment(t *testing.T) {
	a := New()
	for i := 0; i < 32; i++ {
		p := a.Allocate(uintptr(i), false)
		assert.Zero(t, uintptr(p)%DefaultAlignment)
		a.Free(p)
	}
}

func TestAllocate_ZeroSize(t *testing.T) {
	a := New()
	p1 := a.Allocate(0, false)
	p2 := a.Allocate(0, true)
	require.NotNil(t, p1)
	require.NotNil(t, p2)
	assert.NotEqual(t, p1, p2)
	a.Free(p1)
	a.Free(p2)
}

func TestReallocate_PreservesPrefix(t *testing.T) {
	for name, newSubstrate := range substrates() {
		t.Run(name, func(t *testing.T) {
			a := New(WithSubstrate(newSubstrate()))

			p := a.Allocate(100, true)
			b := region(p, 100)
			for i := range b {
				require.Zero(t, b[i])
			}
			fill(b, 0x11)

			p = a.Reallocate(p, 250, false)
			require.NotNil(t, p)
			assert.Equal(t, bytes.Repeat([]byte{0x11}, 100), region(p, 100))
			a.Free(p)
		})
	}
}

func TestReallocate_ZeroesGrowth(t *testing.T) {
	a := New()
	p := a.Allocate(64, false)
	fill(region(p, 64), 0xFF)

	p = a.Reallocate(p, 16, false)
	p = a.Reallocate(p, 200, true)
	b := region(p, 200)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 16), b[:16])
	assert.Equal(t, make([]byte, 184), b[16:])
	a.Free(p)
}

func TestReallocate_Nil(t *testing.T) {
	a := New()
	p := a.Reallocate(nil, 40, true)
	require.NotNil(t, p)
	assert.Equal(t, make([]byte, 40), region(p, 40))
	a.Free(p)
}

func TestReallocateAlignedAt(t *testing.T) {
	a := New()
	p := a.AllocateAlignedAt(10, 32, 5, false)
	copy(region(p, 10), "0123456789")

	p = a.ReallocateAlignedAt(p, 500, 256, 17, false)
	assert.Zero(t, (uintptr(p)+17)%256)
	assert.Equal(t, "0123456789", string(region(p, 10)))

	p = a.ReallocateAligned(p, 4, 128, false)
	assert.Zero(t, uintptr(p)%128)
	assert.Equal(t, "0123", string(region(p, 4)))
	a.Free(p)
}

func TestTryAllocate_FailureReturnsNil(t *testing.T) {
	a := New(WithMemoryLimit(1024))

	assert.Nil(t, a.TryAllocate(4096, false))
	assert.Nil(t, a.TryAllocateAligned(4096, 64, false))
	assert.Nil(t, a.TryAllocateAlignedAt(4096, 64, 8, false))

	p := a.TryAllocate(512, false)
	require.NotNil(t, p)
	a.Free(p)
}

func TestAllocate_HugeRequestOnDefaultSubstrate(t *testing.T) {
	if bits.UintSize < 64 {
		t.Skip("needs a 64-bit address space")
	}
	a := New()
	shift := 45
	huge := uintptr(1) << shift

	assert.Nil(t, a.TryAllocate(huge, false))
	assert.Nil(t, a.TryAllocateAligned(1, huge, false))

	err := recoverError(t, ErrOutOfMemory, func() {
		a.Allocate(huge, false)
	})
	var oom *OutOfMemoryError
	require.True(t, errors.As(err, &oom))
	assert.Equal(t, huge, oom.Size)

	recoverError(t, ErrOutOfMemory, func() { Default().AllocateAligned(1, huge, false) })
}

func TestAllocate_OutOfMemoryPanics(t *testing.T) {
	a := New(WithMemoryLimit(1024))

	err := recoverError(t, ErrOutOfMemory, func() {
		a.Allocate(4096, false)
	})
	var oom *OutOfMemoryError
	require.True(t, errors.As(err, &oom))
	assert.Equal(t, uintptr(4096), oom.Size)
	assert.Zero(t, oom.Count)
	assert.Contains(t, err.Error(), "4096 bytes")
}

func TestReallocate_FailureKeepsRegion(t *testing.T) {
	a := New(WithMemoryLimit(1024))
	p := a.Allocate(100, false)
	fill(region(p, 100), 0x5A)

	assert.Nil(t, a.TryReallocate(p, 8192, false))
	assert.Equal(t, bytes.Repeat([]byte{0x5A}, 100), region(p, 100))

	recoverError(t, ErrOutOfMemory, func() {
		a.Reallocate(p, 8192, false)
	})
	assert.Equal(t, bytes.Repeat([]byte{0x5A}, 100), region(p, 100))
	a.Free(p)
}

func TestAllocateArray(t *testing.T) {
	a := New()
	p := a.AllocateArray(10, 8, true)
	assert.Equal(t, make([]byte, 80), region(p, 80))

	p = a.ReallocateArray(p, 20, 8, true)
	assert.Equal(t, make([]byte, 160), region(p, 160))
	a.Free(p)

	p = a.AllocateArrayAlignedAt(3, 24, 64, 8, false)
	assert.Zero(t, (uintptr(p)+8)%64)
	p = a.ReallocateArrayAlignedAt(p, 6, 24, 128, 8, false)
	assert.Zero(t, (uintptr(p)+8)%128)
	a.Free(p)
}

func TestAllocateArray_Overflow(t *testing.T) {
	a := New()
	huge := ^uintptr(0)/2 + 1

	assert.Nil(t, a.TryAllocateArray(huge, 4, false))
	assert.Nil(t, a.TryReallocateArray(nil, huge, 4, false))

	err := recoverError(t, ErrOutOfMemory, func() {
		a.AllocateArray(huge, 4, false)
	})
	var oom *OutOfMemoryError
	require.True(t, errors.As(err, &oom))
	assert.Equal(t, huge, oom.Count)
	assert.Equal(t, uintptr(4), oom.ElementSize)
	assert.Zero(t, oom.Size)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d elements of 4 bytes", huge))
}

func TestAllocateArray_OverLimitKeepsCount(t *testing.T) {
	a := New(WithMemoryLimit(1000))
	err := recoverError(t, ErrOutOfMemory, func() {
		a.AllocateArrayAligned(100, 16, 64, false)
	})
	var oom *OutOfMemoryError
	require.True(t, errors.As(err, &oom))
	assert.Equal(t, uintptr(1600), oom.Size)
	assert.Equal(t, uintptr(100), oom.Count)
	assert.Equal(t, uintptr(16), oom.ElementSize)
}

func TestFree_Nil(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	a := New(WithMetricsCollector(metrics))
	assert.NotPanics(t, func() { a.Free(nil) })
	assert.Zero(t, metrics.FreeCount.Load())
}

func TestFree_Twice(t *testing.T) {
	a := New()
	p := a.Allocate(8, false)
	a.Free(p)
	recoverError(t, substrate.ErrUnknownAddress, func() { a.Free(p) })
}

func TestMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	a := New(WithMetricsCollector(metrics), WithMemoryLimit(4096))

	p := a.Allocate(100, false)
	q := a.TryAllocate(10000, false)
	assert.Nil(t, q)
	p = a.Reallocate(p, 200, false)
	assert.Nil(t, a.TryReallocate(p, 10000, false))
	recoverError(t, ErrOutOfMemory, func() { a.Allocate(10000, false) })
	a.Free(p)

	assert.Equal(t, int64(3), metrics.AllocCount.Load())
	assert.Equal(t, int64(2), metrics.AllocFailures.Load())
	assert.Equal(t, uint64(100), metrics.AllocBytes.Load())
	assert.Equal(t, int64(2), metrics.ReallocCount.Load())
	assert.Equal(t, int64(1), metrics.ReallocFailures.Load())
	assert.Equal(t, uint64(200), metrics.ReallocBytes.Load())
	assert.Equal(t, int64(1), metrics.FreeCount.Load())
	assert.Equal(t, int64(1), metrics.OutOfMemory.Load())
	assert.Equal(t, int64(0), metrics.Live())
}

func TestMetrics_ReallocateNilCountsAsAllocation(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	a := New(WithMetricsCollector(metrics))

	s := GrowSlice[int64](a, nil, 4, true)
	assert.Equal(t, int64(1), metrics.AllocCount.Load())
	assert.Equal(t, int64(0), metrics.ReallocCount.Load())
	assert.Equal(t, int64(1), metrics.Live())

	s = GrowSlice(a, s, 8, true)
	assert.Equal(t, int64(1), metrics.ReallocCount.Load())
	FreeSlice(a, s)
	assert.Equal(t, int64(0), metrics.Live())

	p := a.Reallocate(nil, 16, false)
	assert.Nil(t, a.TryReallocateArray(nil, ^uintptr(0), 2, false))
	assert.Equal(t, int64(3), metrics.AllocCount.Load())
	assert.Equal(t, int64(1), metrics.AllocFailures.Load())
	assert.Equal(t, int64(1), metrics.Live())
	a.Free(p)
	assert.Equal(t, int64(0), metrics.Live())
}

func TestLogger_AllocFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := New(WithLogger(logger), WithMemoryLimit(64))

	assert.Nil(t, a.TryAllocate(128, false))
	out := buf.String()
	assert.Contains(t, out, `"level":"DEBUG"`)
	assert.Contains(t, out, `"msg":"allocation failed"`)
	assert.Contains(t, out, `"substrate":"budgeted(heap)"`)
	assert.Contains(t, out, `"size":128`)

	buf.Reset()
	recoverError(t, ErrOutOfMemory, func() { a.AllocateArray(4, 32, false) })
	out = buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"msg":"out of memory"`)
	assert.Contains(t, out, `"count":4`)
	assert.Contains(t, out, `"element_size":32`)
}

func TestLogger_Capability(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))
	logger.LogCapability(t.Context(), Capabilities())
	assert.True(t, strings.Contains(buf.String(), "msg=\"simd capability\""))
	assert.Contains(t, buf.String(), "isa=")
}

func TestOptions_Nil(t *testing.T) {
	a := New(nil, WithLogger(nil), WithMetricsCollector(nil), WithSubstrate(nil))
	p := a.Allocate(8, false)
	a.Free(p)
	assert.IsType(t, &substrate.Heap{}, a.Substrate())
}

func TestOptions_MemoryLimitWrapsSubstrate(t *testing.T) {
	a := New(WithSubstrate(substrate.NewMmap()), WithMemoryLimit(1<<20))
	b, ok := a.Substrate().(*substrate.Budgeted)
	require.True(t, ok)
	assert.Equal(t, "budgeted(mmap)", b.String())
	assert.Equal(t, int64(1<<20), b.Limit())

	p := a.Allocate(1000, false)
	assert.Equal(t, int64(1000), b.Usage())
	a.Free(p)
	assert.Zero(t, b.Usage())
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())

	p := Allocate(16, true)
	assert.Equal(t, make([]byte, 16), region(p, 16))
	p = Reallocate(p, 32, true)
	assert.Equal(t, make([]byte, 32), region(p, 32))
	Free(p)

	p = AllocateAlignedAt(8, 64, 3, false)
	assert.Zero(t, (uintptr(p)+3)%64)
	Free(p)

	p = AllocateArray(4, 4, true)
	p = ReallocateArray(p, 8, 4, false)
	Free(p)

	p = TryAllocate(1, false)
	require.NotNil(t, p)
	p = TryReallocate(p, 0, false)
	require.NotNil(t, p)
	Free(p)
}

func TestConcurrentAllocators(t *testing.T) {
	a := New(WithSubstrate(substrate.NewMmap()))

	var (
		wg        sync.WaitGroup
		corrupted atomic.Int64
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed byte) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				n := uintptr(1 + i%300)
				p := a.Allocate(n, false)
				fill(region(p, n), seed)
				p = a.Reallocate(p, n*2, false)
				for _, v := range region(p, n) {
					if v != seed {
						corrupted.Add(1)
						break
					}
				}
				a.Free(p)
			}
		}(byte(w))
	}
	wg.Wait()
	assert.Zero(t, corrupted.Load())
}
