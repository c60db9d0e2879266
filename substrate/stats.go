package substrate

import "sync/atomic"

// Stats tracks substrate usage.
//
//   - LiveBlocks / LiveBytes: regions currently allocated and their requested sizes
//   - ReservedBytes: bytes held from the backing store, including alignment padding
//   - Allocs / Reallocs / Frees: cumulative successful calls
//   - Failures: cumulative nil results
type Stats struct {
	LiveBlocks    uint64
	LiveBytes     uint64
	ReservedBytes uint64
	Allocs        uint64
	Reallocs      uint64
	Frees         uint64
	Failures      uint64
}

type atomicStats struct {
	LiveBlocks    atomic.Uint64
	LiveBytes     atomic.Uint64
	ReservedBytes atomic.Uint64
	Allocs        atomic.Uint64
	Reallocs      atomic.Uint64
	Frees         atomic.Uint64
	Failures      atomic.Uint64
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		LiveBlocks:    s.LiveBlocks.Load(),
		LiveBytes:     s.LiveBytes.Load(),
		ReservedBytes: s.ReservedBytes.Load(),
		Allocs:        s.Allocs.Load(),
		Reallocs:      s.Reallocs.Load(),
		Frees:         s.Frees.Load(),
		Failures:      s.Failures.Load(),
	}
}

func (s *atomicStats) added(size, reserved uintptr) {
	s.LiveBlocks.Add(1)
	s.LiveBytes.Add(uint64(size))
	s.ReservedBytes.Add(uint64(reserved))
}

func (s *atomicStats) removed(size, reserved uintptr) {
	s.LiveBlocks.Add(^uint64(0))
	s.LiveBytes.Add(-uint64(size))
	s.ReservedBytes.Add(-uint64(reserved))
}
