package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA represents a SIMD instruction set architecture.
type ISA uint8

const (
	// Generic represents pure Go word-at-a-time code (no vector lanes).
	Generic ISA = iota
	// SSE2 represents the x86-64 baseline (128-bit SIMD).
	SSE2
	// NEON represents ARM64 NEON (128-bit SIMD, ASIMD).
	NEON
	// SVE2 represents ARM64 SVE2 (scalable vectors, used at 128 bit).
	SVE2
	// AVX2 represents x86-64 AVX2 (256-bit SIMD).
	AVX2
	// AVX512 represents x86-64 AVX-512 (512-bit SIMD).
	AVX512
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case SSE2:
		return "sse2"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "sse2":
		return SSE2, true
	case "neon":
		return NEON, true
	case "sve2":
		return SVE2, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	default:
		return Generic, false
	}
}

// Width returns the lane width tier the ISA drives.
func (i ISA) Width() Width {
	switch i {
	case SSE2, NEON, SVE2:
		return Vector128
	case AVX2:
		return Vector256
	case AVX512:
		return Vector512
	default:
		return Scalar
	}
}

// OverrideEnv names the environment variable that pins the ISA at startup.
const OverrideEnv = "RAWMEM_SIMD"

// Token is the capability token: the ISA and width selected for this process.
// It is produced once during package init and never changes afterwards.
type Token struct {
	ISA        ISA
	Width      Width
	Overridden bool
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return t.ISA.String() + "/" + t.Width.String()
}

// Package-level state - initialized once at package init.
// No mutex needed: Go guarantees init() runs before any other code.
var (
	token Token

	// CPU feature flags (set by platform-specific init)
	hasSSE2     bool // x86-64 baseline
	hasASIMD    bool // ARM64 NEON
	hasSVE2     bool // ARM64 SVE2
	hasAVX2     bool // x86-64 AVX2
	hasAVX512F  bool // x86-64 AVX-512 Foundation
	hasAVX512BW bool // x86-64 AVX-512 Byte/Word
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	token = probe(os.Getenv(OverrideEnv))
	active = Select(token)
}

func probe(override string) Token {
	if override != "" {
		if isa, ok := ParseISA(override); ok && isISAAvailable(isa) {
			return Token{ISA: isa, Width: isa.Width(), Overridden: true}
		}
		// Unknown or unavailable override - fall through to auto-detection
	}

	isa := selectBestISA()
	return Token{ISA: isa, Width: isa.Width()}
}

// isISAAvailable checks if an ISA is supported on this CPU.
func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case SSE2:
		return hasSSE2
	case NEON:
		return hasASIMD
	case SVE2:
		return hasSVE2
	case AVX2:
		return hasAVX2
	case AVX512:
		return hasAVX512F && hasAVX512BW
	default:
		return false
	}
}

// selectBestISA chooses the optimal ISA for the current platform.
func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "arm64":
		return selectBestARM64()
	case "amd64":
		return selectBestAMD64()
	default:
		return Generic
	}
}

// selectBestARM64 selects the best ISA for ARM64. Both drive 128-bit lanes;
// SVE2 is only reported when NEON is unavailable or on native SVE hardware.
func selectBestARM64() ISA {
	preferNEON := runtime.GOOS == "darwin"

	if hasSVE2 && !preferNEON {
		return SVE2
	}
	if hasASIMD {
		return NEON
	}
	return Generic
}

// selectBestAMD64 selects the best ISA for AMD64.
func selectBestAMD64() ISA {
	if hasAVX512F && hasAVX512BW {
		return AVX512
	}
	if hasAVX2 {
		return AVX2
	}
	if hasSSE2 {
		return SSE2
	}
	return Generic
}

// Capability returns the process-wide capability token.
func Capability() Token {
	return token
}

// HasSSE2 returns true if x86-64 SSE2 is available.
func HasSSE2() bool {
	return hasSSE2
}

// HasASIMD returns true if ARM64 NEON is available.
func HasASIMD() bool {
	return hasASIMD
}

// HasSVE2 returns true if ARM64 SVE2 is available.
func HasSVE2() bool {
	return hasSVE2
}

// HasAVX2 returns true if x86-64 AVX2 is available.
func HasAVX2() bool {
	return hasAVX2
}

// HasAVX512 returns true if x86-64 AVX-512 (F+BW) is available.
func HasAVX512() bool {
	return hasAVX512F && hasAVX512BW
}
