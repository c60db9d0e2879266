package rawmem

import (
	"strconv"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func ptr(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b))
}

func TestCopy_ForwardOverlap(t *testing.T) {
	buf := sequence(50)
	orig := sequence(50)

	Copy(ptr(buf[10:]), ptr(buf), 30)

	assert.Equal(t, orig[0:30], buf[10:40])
	assert.Equal(t, orig[0:10], buf[0:10])
	assert.Equal(t, orig[40:], buf[40:])
}

func TestCopy_BackwardOverlap(t *testing.T) {
	buf := sequence(50)
	orig := sequence(50)

	Copy(ptr(buf), ptr(buf[10:]), 30)

	assert.Equal(t, orig[10:40], buf[0:30])
	assert.Equal(t, orig[30:], buf[30:])
}

func TestCopy_OverlapMatchesTemporary(t *testing.T) {
	for _, n := range []int{1, 31, 32, 33, 127, 128, 129, 300, 1024} {
		for _, k := range []int{1, 7, 16, 31, 64, 129} {
			if k >= n {
				continue
			}
			for _, forward := range []bool{true, false} {
				buf := sequence(n + k)
				want := sequence(n + k)
				src, dst := 0, k
				if !forward {
					src, dst = k, 0
				}
				tmp := append([]byte(nil), want[src:src+n]...)
				copy(want[dst:], tmp)

				Copy(ptr(buf[dst:]), ptr(buf[src:]), uintptr(n))
				require.Equal(t, want, buf, "n=%d k=%d forward=%v", n, k, forward)
			}
		}
	}
}

func TestCopy_Disjoint(t *testing.T) {
	for _, n := range []int{1, 2, 3, 15, 16, 17, 32, 33, 100, 128, 255, 4096} {
		src := sequence(n)
		dst := make([]byte, n+2)
		Copy(ptr(dst[1:]), ptr(src), uintptr(n))
		assert.Equal(t, src, dst[1:n+1])
		assert.Zero(t, dst[0])
		assert.Zero(t, dst[n+1])
	}
}

func TestCopy_SamePointer(t *testing.T) {
	buf := sequence(200)
	Copy(ptr(buf), ptr(buf), 200)
	assert.Equal(t, sequence(200), buf)
}

func TestCopy_ZeroLengthNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Copy(nil, nil, 0)
		CopyUnsafe(nil, nil, 0)
		CopyBounded(nil, 0, nil, 0)
		Clear(nil, 0)
		ClearUnsafe(nil, 0)
		CopyBytes(nil, nil)
		ClearBytes(nil)
	})
}

func TestCopy_NullArgument(t *testing.T) {
	buf := make([]byte, 8)

	err := recoverError(t, ErrNullArgument, func() { Copy(nil, ptr(buf), 8) })
	assert.Equal(t, "destination", err.(*NullArgumentError).Name)

	err = recoverError(t, ErrNullArgument, func() { Copy(ptr(buf), nil, 8) })
	assert.Equal(t, "source", err.(*NullArgumentError).Name)

	recoverError(t, ErrNullArgument, func() { Clear(nil, 1) })
}

func TestCopyBounded(t *testing.T) {
	dst := make([]byte, 16)
	src := sequence(20)

	CopyBounded(ptr(dst), 16, ptr(src), 16)
	assert.Equal(t, src[:16], dst)

	err := recoverError(t, ErrOutOfRange, func() {
		CopyBounded(ptr(dst), 16, ptr(src), 20)
	})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "sourceLength", oor.Name)
	assert.Equal(t, uintptr(20), oor.Value)
	assert.Equal(t, uintptr(16), oor.Limit)

	recoverError(t, ErrNullArgument, func() { CopyBounded(nil, 16, ptr(src), 4) })
}

func TestCopyBytes(t *testing.T) {
	dst := make([]byte, 40)
	CopyBytes(dst, sequence(40))
	assert.Equal(t, sequence(40), dst)

	recoverError(t, ErrOutOfRange, func() { CopyBytes(dst[:10], sequence(11)) })

	CopyBytes(dst[5:], dst[:35])
	assert.Equal(t, sequence(35), dst[5:])
}

func TestClear_StrideBoundary(t *testing.T) {
	a := New()
	p := a.Allocate(150, false)
	b := region(p, 150)
	fill(b, 0xCC)

	Clear(p, 150)
	for i := range b {
		require.Zero(t, b[i], "byte %d", i)
	}
	a.Free(p)
}

func TestClear_AllLengths(t *testing.T) {
	for n := 0; n <= 300; n++ {
		buf := make([]byte, n+2)
		fill(buf, 0xEE)
		ClearBytes(buf[1 : n+1])
		require.Equal(t, byte(0xEE), buf[0])
		require.Equal(t, byte(0xEE), buf[n+1])
		for i := 1; i <= n; i++ {
			require.Zero(t, buf[i], "n=%d i=%d", n, i)
		}
	}
}

func TestCapabilities(t *testing.T) {
	c := Capabilities()
	assert.NotEmpty(t, c.ISA)
	assert.Contains(t, []string{"scalar", "v128", "v256", "v512"}, c.Width)
	assert.Equal(t, c.LaneBytes*8, c.StrideBytes)
	assert.Equal(t, c, Capabilities())
}

func BenchmarkCopy(b *testing.B) {
	for _, n := range []int{16, 256, 4096, 1 << 20} {
		src := sequence(n)
		dst := make([]byte, n)
		b.Run(sizeName(n), func(b *testing.B) {
			b.SetBytes(int64(n))
			for i := 0; i < b.N; i++ {
				Copy(ptr(dst), ptr(src), uintptr(n))
			}
		})
	}
}

func BenchmarkClear(b *testing.B) {
	for _, n := range []int{16, 256, 4096, 1 << 20} {
		buf := make([]byte, n)
		b.Run(sizeName(n), func(b *testing.B) {
			b.SetBytes(int64(n))
			for i := 0; i < b.N; i++ {
				Clear(ptr(buf), uintptr(n))
			}
		})
	}
}

func sizeName(n int) string {
	switch {
	case n >= 1<<20:
		return strconv.Itoa(n>>20) + "MiB"
	case n >= 1<<10:
		return strconv.Itoa(n>>10) + "KiB"
	default:
		return strconv.Itoa(n) + "B"
	}
}
