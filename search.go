package rawmem

import "unsafe"

// TryFindFirstIndex returns the index of the first element of buf equal to
// v. It returns (-1, false) when there is none.
func TryFindFirstIndex[T comparable](buf []T, v T) (int, bool) {
	for i := range buf {
		if buf[i] == v {
			return i, true
		}
	}
	return -1, false
}

// TryFindLastIndex returns the index of the last element of buf equal to v.
// It returns (-1, false) when there is none.
func TryFindLastIndex[T comparable](buf []T, v T) (int, bool) {
	for i := len(buf) - 1; i >= 0; i-- {
		if buf[i] == v {
			return i, true
		}
	}
	return -1, false
}

// TryFindFirstIndexPtr is TryFindFirstIndex over n elements starting at p,
// for example a region returned by AllocateArray.
func TryFindFirstIndexPtr[T comparable](p *T, n int, v T) (int, bool) {
	if p == nil || n <= 0 {
		return -1, false
	}
	return TryFindFirstIndex(unsafe.Slice(p, n), v)
}

// TryFindLastIndexPtr is TryFindLastIndex over n elements starting at p.
func TryFindLastIndexPtr[T comparable](p *T, n int, v T) (int, bool) {
	if p == nil || n <= 0 {
		return -1, false
	}
	return TryFindLastIndex(unsafe.Slice(p, n), v)
}
