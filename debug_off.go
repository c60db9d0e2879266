//go:build !rawmemdebug

package rawmem

const debugChecks = false
