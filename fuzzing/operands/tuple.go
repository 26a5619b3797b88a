package operands

import (
	"fmt"
	"strings"

	"github.com/crytic/medusa-geth/common/math"
	"github.com/crytic/u256diff/utils"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// OperandSize is the canonical width of an operand in bytes.
const OperandSize = 32

// Tuple is an ordered, fixed-arity sequence of operands forming one test case. Operands are stored by value so a
// Tuple never aliases the operands of another Tuple once cloned.
type Tuple []uint256.Int

// NewTuple creates a Tuple holding copies of the provided operands.
func NewTuple(values ...*uint256.Int) Tuple {
	t := make(Tuple, len(values))
	for i, v := range values {
		t[i] = *v
	}
	return t
}

// FromUint64s creates a Tuple from small integer values. It is mostly useful in tests and replays.
func FromUint64s(values ...uint64) Tuple {
	t := make(Tuple, len(values))
	for i, v := range values {
		t[i].SetUint64(v)
	}
	return t
}

// Arity returns the amount of operands in the tuple.
func (t Tuple) Arity() int {
	return len(t)
}

// Clone returns an independent copy of the tuple.
func (t Tuple) Clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

// Equal reports whether both tuples hold the same operands in the same order.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].Eq(&other[i]) {
			return false
		}
	}
	return true
}

// Bytes returns the canonical 32-byte big-endian encoding of every operand, in order.
func (t Tuple) Bytes() [][OperandSize]byte {
	encoded := make([][OperandSize]byte, len(t))
	for i := range t {
		encoded[i] = t[i].Bytes32()
	}
	return encoded
}

// Hex returns the hexadecimal representation of every operand.
func (t Tuple) Hex() []string {
	out := make([]string, len(t))
	for i := range t {
		out[i] = t[i].Hex()
	}
	return out
}

// Decimal returns the decimal representation of every operand.
func (t Tuple) Decimal() []string {
	out := make([]string, len(t))
	for i := range t {
		out[i] = t[i].Dec()
	}
	return out
}

// String renders the tuple in hexadecimal, e.g. "(0x2, 0x4)".
func (t Tuple) String() string {
	return "(" + strings.Join(t.Hex(), ", ") + ")"
}

// Parse parses a single operand given in decimal or 0x-prefixed hexadecimal form. Negative values are accepted when
// they fit a signed 256-bit integer and are stored in two's complement, which makes signed edge cases easy to replay.
func Parse(s string) (uint256.Int, error) {
	var z uint256.Int
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return z, errors.Errorf("empty 256-bit operand %q", s)
	}
	b, ok := math.ParseBig256(digits)
	if !ok {
		return z, errors.Errorf("invalid 256-bit operand %q", s)
	}
	if negative {
		b.Neg(b)
		if minSigned, _ := utils.GetIntegerConstraints(true, 256); b.Cmp(minSigned) < 0 {
			return z, errors.Errorf("operand %q is below the signed 256-bit range", s)
		}
		z.SetFromBig(utils.ConstrainIntegerToBitLength(b, false, 256))
		return z, nil
	}
	z.SetFromBig(b)
	return z, nil
}

// ParseTuple parses each string in values as an operand.
func ParseTuple(values []string) (Tuple, error) {
	t := make(Tuple, len(values))
	for i, v := range values {
		parsed, err := Parse(v)
		if err != nil {
			return nil, errors.Wrapf(err, "operand %d", i)
		}
		t[i] = parsed
	}
	return t, nil
}

// Format implements fmt.Formatter so tuples print the same in %v and %s verbs.
func (t Tuple) Format(s fmt.State, verb rune) {
	switch verb {
	case 'd':
		fmt.Fprint(s, "("+strings.Join(t.Decimal(), ", ")+")")
	default:
		fmt.Fprint(s, t.String())
	}
}
