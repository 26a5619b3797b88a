package operations

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Operation identifies one 256-bit EVM arithmetic, comparison or bitwise operation. It carries no state and is only
// used as a dispatch key by the oracles.
type Operation uint8

const (
	Add Operation = iota
	Sub
	Mul
	Div
	SDiv
	Mod
	SMod
	Exp
	SignExtend
	Lt
	Gt
	Eq
	Byte
	Shl
	Shr
	Sar
	AddMod
	MulMod

	// count is the amount of defined operations; it must stay last.
	count
)

// Unknown marks a failure which was not attributable to a single operation, such as an iteration that aborted before
// any comparison ran. It is not a valid operation and never parses.
const Unknown Operation = 0xff

// info describes the static properties of an Operation.
type info struct {
	name      string
	arity     int
	highValue bool
}

var table = [count]info{
	Add:        {"ADD", 2, false},
	Sub:        {"SUB", 2, false},
	Mul:        {"MUL", 2, false},
	Div:        {"DIV", 2, true},
	SDiv:       {"SDIV", 2, true},
	Mod:        {"MOD", 2, true},
	SMod:       {"SMOD", 2, true},
	Exp:        {"EXP", 2, true},
	SignExtend: {"SIGNEXTEND", 2, true},
	Lt:         {"LT", 2, false},
	Gt:         {"GT", 2, false},
	Eq:         {"EQ", 2, false},
	Byte:       {"BYTE", 2, false},
	Shl:        {"SHL", 2, false},
	Shr:        {"SHR", 2, false},
	Sar:        {"SAR", 2, true},
	AddMod:     {"ADDMOD", 3, true},
	MulMod:     {"MULMOD", 3, true},
}

// ErrArityMismatch indicates an operation was configured against operand tuples of the wrong size.
var ErrArityMismatch = errors.New("operation arity does not match operand arity")

// Valid reports whether o is one of the defined operations.
func (o Operation) Valid() bool {
	return o < count
}

// String returns the EVM mnemonic of the operation.
func (o Operation) String() string {
	if o == Unknown {
		return "UNKNOWN"
	}
	if !o.Valid() {
		return fmt.Sprintf("Operation(%d)", uint8(o))
	}
	return table[o].name
}

// Arity returns the amount of operands the operation consumes.
func (o Operation) Arity() int {
	if !o.Valid() {
		return 0
	}
	return table[o].arity
}

// HighValue reports whether the operation belongs to the algorithmically trickiest subset.
func (o Operation) HighValue() bool {
	return o.Valid() && table[o].highValue
}

// All returns every operation in registry order.
func All() []Operation {
	ops := make([]Operation, 0, count)
	for op := Operation(0); op < count; op++ {
		ops = append(ops, op)
	}
	return ops
}

// HighValueSet returns the operations considered hardest to implement correctly, in registry order.
func HighValueSet() []Operation {
	ops := make([]Operation, 0)
	for _, op := range All() {
		if op.HighValue() {
			ops = append(ops, op)
		}
	}
	return ops
}

// Parse resolves an operation by mnemonic, case-insensitively.
func Parse(name string) (Operation, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for op := Operation(0); op < count; op++ {
		if table[op].name == upper {
			return op, nil
		}
	}
	return 0, errors.Errorf("unknown operation %q", name)
}

// ParseAll resolves a list of mnemonics, rejecting duplicates.
func ParseAll(names []string) ([]Operation, error) {
	ops := make([]Operation, 0, len(names))
	for _, name := range names {
		op, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if slices.Contains(ops, op) {
			return nil, errors.Errorf("operation %v listed more than once", op)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// FilterByArity returns the operations of ops that consume exactly arity operands, preserving order.
func FilterByArity(ops []Operation, arity int) []Operation {
	filtered := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if op.Arity() == arity {
			filtered = append(filtered, op)
		}
	}
	return filtered
}

// CheckArity returns an error wrapping ErrArityMismatch for the first operation in ops that does not consume exactly
// arity operands.
func CheckArity(ops []Operation, arity int) error {
	for _, op := range ops {
		if !op.Valid() {
			return errors.Errorf("undefined operation %v", op)
		}
		if op.Arity() != arity {
			return errors.Wrapf(ErrArityMismatch, "%v takes %d operands, tuples have %d", op, op.Arity(), arity)
		}
	}
	return nil
}
