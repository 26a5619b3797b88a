package operands

import (
	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
)

// ErrInsufficientInput is returned by Decode when the raw input is too short to produce a tuple. Callers skip the
// iteration rather than report it.
var ErrInsufficientInput = errors.New("insufficient input")

// MinInputLength returns the smallest raw input length Decode accepts for the given arity.
func MinInputLength(arity int) int {
	switch arity {
	case 2:
		return 2
	case 3:
		return 10
	default:
		return 0
	}
}

// Decode splits data into arity contiguous, nearly equal chunks and turns each into an operand. Only the first 32
// bytes of a chunk are used. A shorter chunk is copied into the low-index (most significant) positions of a zeroed
// 32-byte buffer, and the buffer is read big-endian.
func Decode(data []byte, arity int) (Tuple, error) {
	if arity != 2 && arity != 3 {
		return nil, errors.Errorf("unsupported operand arity %d", arity)
	}
	if len(data) < MinInputLength(arity) {
		return nil, errors.Wrapf(ErrInsufficientInput, "got %d bytes, need at least %d", len(data), MinInputLength(arity))
	}

	chunkSize := len(data) / arity
	tuple := make(Tuple, arity)
	for i := 0; i < arity; i++ {
		start := i * chunkSize
		end := start + chunkSize
		// The last chunk absorbs the remainder of an uneven split
		if i == arity-1 {
			end = len(data)
		}
		tuple[i].SetBytes32(padChunk(data[start:end]))
	}
	return tuple, nil
}

// padChunk truncates chunk to OperandSize bytes and right-pads it with zeros to exactly OperandSize bytes.
func padChunk(chunk []byte) []byte {
	if len(chunk) > OperandSize {
		chunk = chunk[:OperandSize]
	}
	return common.RightPadBytes(chunk, OperandSize)
}

// Encode is the inverse of Decode for tuples whose operands are given in full: it concatenates the canonical 32-byte
// encodings. Decoding the result with the same arity yields the original tuple.
func Encode(t Tuple) []byte {
	data := make([]byte, 0, len(t)*OperandSize)
	for _, b := range t.Bytes() {
		data = append(data, b[:]...)
	}
	return data
}
