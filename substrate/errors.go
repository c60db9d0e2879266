package substrate

import (
	"errors"
	"fmt"
)

// ErrUnknownAddress is the panic value cause when Free or Realloc receives an
// address the substrate did not hand out, or one already freed.
var ErrUnknownAddress = errors.New("substrate: unknown address")

func unknownAddress(op string, addr uintptr) error {
	return fmt.Errorf("%w: %s(%#x)", ErrUnknownAddress, op, addr)
}
