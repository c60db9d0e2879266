package rawmem

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func region(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}

// recoverError runs fn, requires it to panic with an error matching target,
// and returns the panic value.
func recoverError(t *testing.T, target error, fn func()) (err error) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		var ok bool
		err, ok = r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, target), "got %v", err)
	}()
	fn()
	return nil
}
