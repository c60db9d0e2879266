//go:build (!amd64 && !arm64) || noasm

package simd

// No feature probe: every ISA except Generic reports unavailable.
func init() {
	initCapabilities()
}
