//go:build rawmemdebug

package rawmem

const debugChecks = true
