//go:build !linux

package substrate

func physicalMemory() uint64 {
	return 0
}
