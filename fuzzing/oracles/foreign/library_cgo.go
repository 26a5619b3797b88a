//go:build cgo

package foreign

/*
#cgo CFLAGS: -O2
#include <stdint.h>
#include "u256.h"
*/
import "C"

import (
	"unsafe"

	"github.com/crytic/u256diff/fuzzing/operations"
)

// linkedLibrary is the Library compiled from u256.c and linked into the binary.
type linkedLibrary struct{}

// Open returns the foreign library linked into this binary.
func Open() (Library, error) {
	return linkedLibrary{}, nil
}

// Outstanding returns the amount of result buffers the linked library has handed out which were not released yet.
func Outstanding() int64 {
	return int64(C.u256_outstanding())
}

// Version implements Library.
func (linkedLibrary) Version() string {
	return C.GoString(C.u256_version())
}

// Call implements Library.
func (linkedLibrary) Call(op operations.Operation, inputs [][]byte) (int32, unsafe.Pointer, int) {
	var (
		out    *C.uint8_t
		outLen C.int32_t
		status C.int32_t
	)
	a, aLen := cInput(inputs, 0)
	b, bLen := cInput(inputs, 1)

	switch op {
	case operations.Add:
		status = C.u256_add(a, aLen, b, bLen, &out, &outLen)
	case operations.Sub:
		status = C.u256_sub(a, aLen, b, bLen, &out, &outLen)
	case operations.Mul:
		status = C.u256_mul(a, aLen, b, bLen, &out, &outLen)
	case operations.Div:
		status = C.u256_div(a, aLen, b, bLen, &out, &outLen)
	case operations.SDiv:
		status = C.u256_sdiv(a, aLen, b, bLen, &out, &outLen)
	case operations.Mod:
		status = C.u256_mod(a, aLen, b, bLen, &out, &outLen)
	case operations.SMod:
		status = C.u256_smod(a, aLen, b, bLen, &out, &outLen)
	case operations.Exp:
		status = C.u256_exp(a, aLen, b, bLen, &out, &outLen)
	case operations.SignExtend:
		status = C.u256_signextend(a, aLen, b, bLen, &out, &outLen)
	case operations.Lt:
		status = C.u256_lt(a, aLen, b, bLen, &out, &outLen)
	case operations.Gt:
		status = C.u256_gt(a, aLen, b, bLen, &out, &outLen)
	case operations.Eq:
		status = C.u256_eq(a, aLen, b, bLen, &out, &outLen)
	case operations.Byte:
		status = C.u256_byte(a, aLen, b, bLen, &out, &outLen)
	case operations.Shl:
		status = C.u256_shl(a, aLen, b, bLen, &out, &outLen)
	case operations.Shr:
		status = C.u256_shr(a, aLen, b, bLen, &out, &outLen)
	case operations.Sar:
		status = C.u256_sar(a, aLen, b, bLen, &out, &outLen)
	case operations.AddMod:
		c, cLen := cInput(inputs, 2)
		status = C.u256_addmod(a, aLen, b, bLen, c, cLen, &out, &outLen)
	case operations.MulMod:
		c, cLen := cInput(inputs, 2)
		status = C.u256_mulmod(a, aLen, b, bLen, c, cLen, &out, &outLen)
	default:
		return StatusUnsupported, nil, 0
	}
	return int32(status), unsafe.Pointer(out), int(outLen)
}

// Free implements Library.
func (linkedLibrary) Free(buf unsafe.Pointer) {
	C.u256_free((*C.uint8_t)(buf))
}

// cInput returns a pointer to the i-th input and its length, or a nil pointer if the input is absent or empty.
func cInput(inputs [][]byte, i int) (*C.uint8_t, C.int32_t) {
	if i >= len(inputs) || len(inputs[i]) == 0 {
		return nil, 0
	}
	return (*C.uint8_t)(unsafe.Pointer(&inputs[i][0])), C.int32_t(len(inputs[i]))
}
