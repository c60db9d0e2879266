package rawmem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec3 struct {
	X, Y, Z float64
}

func TestMakeSlice(t *testing.T) {
	a := New()
	s := MakeSlice[vec3](a, 10, true)
	require.Len(t, s, 10)
	assert.Equal(t, 10, cap(s))
	assert.Zero(t, uintptr(unsafe.Pointer(unsafe.SliceData(s)))%unsafe.Alignof(vec3{}))
	for _, v := range s {
		assert.Equal(t, vec3{}, v)
	}

	for i := range s {
		s[i] = vec3{X: float64(i)}
	}
	s = GrowSlice(a, s, 20, true)
	require.Len(t, s, 20)
	for i := 0; i < 10; i++ {
		assert.Equal(t, float64(i), s[i].X)
	}
	for i := 10; i < 20; i++ {
		assert.Equal(t, vec3{}, s[i])
	}

	s = GrowSlice(a, s, 3, false)
	assert.Equal(t, []vec3{{X: 0}, {X: 1}, {X: 2}}, s)
	FreeSlice(a, s)
}

func TestMakeSlice_Empty(t *testing.T) {
	a := New()
	s := MakeSlice[int64](a, 0, false)
	assert.Len(t, s, 0)
	FreeSlice(a, s)
	FreeSlice[int64](a, nil)
}

func TestMakeSlice_Negative(t *testing.T) {
	a := New()
	recoverError(t, ErrContractViolation, func() { MakeSlice[byte](a, -1, false) })
	recoverError(t, ErrContractViolation, func() { GrowSlice[byte](a, nil, -1, false) })
}

func TestMakeSlice_OutOfMemory(t *testing.T) {
	a := New(WithMemoryLimit(100))
	recoverError(t, ErrOutOfMemory, func() { MakeSlice[uint64](a, 100, false) })
}
