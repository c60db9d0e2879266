package rawmem

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is matched by every *OutOfMemoryError.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrNullArgument is matched by every *NullArgumentError.
	ErrNullArgument = errors.New("null argument")
	// ErrOutOfRange is matched by every *OutOfRangeError.
	ErrOutOfRange = errors.New("argument out of range")
	// ErrContractViolation is matched by every *ContractError.
	ErrContractViolation = errors.New("contract violation")
)

// OutOfMemoryError is the panic value of promoting allocation variants.
//
// Array requests keep Count and ElementSize separately; Size is their
// product, or 0 when the product overflows.
type OutOfMemoryError struct {
	Size        uintptr
	Count       uintptr
	ElementSize uintptr
}

func (e *OutOfMemoryError) Error() string {
	if e.ElementSize != 0 || e.Count != 0 {
		return fmt.Sprintf("out of memory: failed to allocate %d elements of %d bytes", e.Count, e.ElementSize)
	}
	return fmt.Sprintf("out of memory: failed to allocate %d bytes", e.Size)
}

// Is reports whether target is ErrOutOfMemory.
func (e *OutOfMemoryError) Is(target error) bool { return target == ErrOutOfMemory }

// NullArgumentError reports a nil pointer passed with a non-zero length.
type NullArgumentError struct {
	Name string
}

func (e *NullArgumentError) Error() string {
	return fmt.Sprintf("null argument: %s", e.Name)
}

// Is reports whether target is ErrNullArgument.
func (e *NullArgumentError) Is(target error) bool { return target == ErrNullArgument }

// OutOfRangeError reports a length that exceeds the capacity it must fit in.
type OutOfRangeError struct {
	Name  string
	Value uintptr
	Limit uintptr
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("argument out of range: %s is %d, limit %d", e.Name, e.Value, e.Limit)
}

// Is reports whether target is ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// ContractError reports caller misuse detected by a checked build.
type ContractError struct {
	Msg string
}

func (e *ContractError) Error() string {
	return "contract violation: " + e.Msg
}

// Is reports whether target is ErrContractViolation.
func (e *ContractError) Is(target error) bool { return target == ErrContractViolation }
