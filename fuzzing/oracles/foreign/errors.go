package foreign

import (
	"fmt"

	"github.com/crytic/u256diff/fuzzing/operations"
)

// FailureError describes a foreign call which reported a nonzero status. The status is opaque and is reported as-is.
type FailureError struct {
	// Op is the operation whose routine failed.
	Op operations.Operation

	// Status is the code returned by the routine.
	Status int32
}

// Error implements the error interface.
func (e *FailureError) Error() string {
	return fmt.Sprintf("foreign call for %v failed with status %d (%s)", e.Op, e.Status, StatusText(e.Status))
}

// MalformedResultError describes a foreign call which reported success but handed back a buffer that cannot hold an
// operand.
type MalformedResultError struct {
	// Op is the operation whose routine returned the buffer.
	Op operations.Operation

	// Size is the buffer length reported by the routine.
	Size int

	// Null indicates the routine returned a null buffer pointer.
	Null bool
}

// Error implements the error interface.
func (e *MalformedResultError) Error() string {
	if e.Null {
		return fmt.Sprintf("foreign call for %v reported success without a result buffer", e.Op)
	}
	return fmt.Sprintf("foreign call for %v returned a %d byte result, expected 1 to 32 bytes", e.Op, e.Size)
}

// StatusText returns a description of the status codes the linked library is known to return.
func StatusText(status int32) string {
	switch status {
	case StatusOK:
		return "ok"
	case StatusBadLength:
		return "bad operand length"
	case StatusNullPointer:
		return "null pointer"
	case StatusOutOfMemory:
		return "out of memory"
	case StatusUnsupported:
		return "unsupported operation"
	default:
		return "unknown"
	}
}
