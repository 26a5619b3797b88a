// Package foreign evaluates operations through a separately compiled library reached over a C calling convention. The
// library allocates every result buffer itself and exports the routine that releases it, so buffers are never handed
// to the Go allocator or the C runtime's free directly.
package foreign

import (
	"unsafe"

	"github.com/crytic/u256diff/fuzzing/operations"
)

// Status codes reported by the linked library. Any other nonzero code is surfaced verbatim.
const (
	StatusOK          int32 = 0
	StatusBadLength   int32 = 1
	StatusNullPointer int32 = 2
	StatusOutOfMemory int32 = 3

	// StatusUnsupported is reported by the Go side of the boundary when the library exports no routine for an
	// operation.
	StatusUnsupported int32 = -1
)

// Library describes the foreign call boundary.
type Library interface {
	// Version returns the semantic version of the library ABI.
	Version() string

	// Call invokes the routine exported for op with one big-endian byte string per operand. When the returned status
	// is StatusOK, buf points to size bytes which the caller owns and must release with Free. For any other status
	// neither buf nor size may be used.
	Call(op operations.Operation, inputs [][]byte) (status int32, buf unsafe.Pointer, size int)

	// Free releases a buffer obtained from a successful Call.
	Free(buf unsafe.Pointer)
}
