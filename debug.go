package rawmem

import "github.com/hupe1980/rawmem/internal/mem"

// checkRequest asserts the request contract in builds tagged rawmemdebug.
// Release builds forward the request unchanged and let the substrate reject it.
func checkRequest(req request) {
	if !debugChecks {
		return
	}
	alignment := req.alignment
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	if !mem.IsPow2(alignment) {
		panic(&ContractError{Msg: "alignment must be a power of two"})
	}
	if req.offset >= alignment {
		panic(&ContractError{Msg: "offset must be less than alignment"})
	}
}
