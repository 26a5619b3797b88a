package foreign

import (
	"bytes"
	"unsafe"

	"github.com/crytic/u256diff/fuzzing/operands"
)

// resultBuffer guards a buffer allocated by a Library. The bytes are copied out before the buffer is released, and
// release is routed back through the owning Library exactly once.
type resultBuffer struct {
	lib  Library
	ptr  unsafe.Pointer
	size int
}

// newResultBuffer takes ownership of a buffer returned by a successful Library.Call.
func newResultBuffer(lib Library, ptr unsafe.Pointer, size int) *resultBuffer {
	return &resultBuffer{lib: lib, ptr: ptr, size: size}
}

// valid reports whether the buffer can be read as an operand.
func (b *resultBuffer) valid() bool {
	return b.ptr != nil && b.size > 0 && b.size <= operands.OperandSize
}

// copyOut returns a Go-owned copy of exactly size bytes. It returns nil if the buffer is invalid or already released.
func (b *resultBuffer) copyOut() []byte {
	if !b.valid() {
		return nil
	}
	return bytes.Clone(unsafe.Slice((*byte)(b.ptr), b.size))
}

// release hands the buffer back to the Library. Later calls are no-ops.
func (b *resultBuffer) release() {
	if b.ptr == nil {
		return
	}
	b.lib.Free(b.ptr)
	b.ptr = nil
}
