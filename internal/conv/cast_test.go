package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUintptr(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUintptr(0)
		assert.NoError(t, err)
		assert.Equal(t, uintptr(0), got)
	})

	t.Run("valid max int", func(t *testing.T) {
		got, err := IntToUintptr(math.MaxInt)
		assert.NoError(t, err)
		assert.Equal(t, uintptr(math.MaxInt), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUintptr(-1)
		assert.Error(t, err)
	})
}

func TestUintptrToInt(t *testing.T) {
	t.Run("valid positive", func(t *testing.T) {
		got, err := UintptrToInt(123)
		assert.NoError(t, err)
		assert.Equal(t, 123, got)
	})

	t.Run("invalid too large", func(t *testing.T) {
		_, err := UintptrToInt(^uintptr(0))
		assert.Error(t, err)
	})
}

func TestUintptrToInt64(t *testing.T) {
	got, err := UintptrToInt64(1 << 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1<<20), got)

	if ptrSize() == 8 {
		_, err = UintptrToInt64(^uintptr(0))
		assert.Error(t, err)
	}
}

func ptrSize() int {
	return 4 << (^uintptr(0) >> 63)
}
