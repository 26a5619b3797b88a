// Package native evaluates operations in-process with github.com/holiman/uint256, using the operand conventions of the
// EVM interpreter's instruction set.
package native

import (
	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Name is the identifier reported by the native oracle.
const Name = "native"

// Oracle evaluates operations natively. Operand order follows the EVM stack order: for SIGNEXTEND and BYTE the first
// operand is the byte index, and for the shift operations the first operand is the shift amount.
type Oracle struct {
	// evaluators maps each operation to the function computing it.
	evaluators map[operations.Operation]evaluator
}

// evaluator computes an operation into z and returns it.
type evaluator func(z *uint256.Int, args operands.Tuple) *uint256.Int

// NewOracle returns a native Oracle supporting every registered operation.
func NewOracle() *Oracle {
	return &Oracle{evaluators: defaultEvaluators()}
}

// Name implements oracles.Oracle.
func (o *Oracle) Name() string {
	return Name
}

// Evaluate implements oracles.Oracle. Any panic raised by the underlying arithmetic is recovered and returned as an
// *oracles.AbortError so the caller can report it like any other failure.
func (o *Oracle) Evaluate(op operations.Operation, args operands.Tuple) (result uint256.Int, err error) {
	if err = oracles.CheckOperands(op, args); err != nil {
		return result, err
	}
	eval, ok := o.evaluators[op]
	if !ok {
		return result, errors.Errorf("native oracle does not implement %v", op)
	}

	defer func() {
		oracles.Recover(recover(), Name, op, &err)
	}()
	eval(&result, args)
	return result, nil
}

func defaultEvaluators() map[operations.Operation]evaluator {
	return map[operations.Operation]evaluator{
		operations.Add:  func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.Add(&t[0], &t[1]) },
		operations.Sub:  func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.Sub(&t[0], &t[1]) },
		operations.Mul:  func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.Mul(&t[0], &t[1]) },
		operations.Div:  func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.Div(&t[0], &t[1]) },
		operations.SDiv: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.SDiv(&t[0], &t[1]) },
		operations.Mod:  func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.Mod(&t[0], &t[1]) },
		operations.SMod: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.SMod(&t[0], &t[1]) },
		operations.Exp:  func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.Exp(&t[0], &t[1]) },
		operations.SignExtend: func(z *uint256.Int, t operands.Tuple) *uint256.Int {
			// ExtendSign(value, byteIndex)
			return z.ExtendSign(&t[1], &t[0])
		},
		operations.Lt: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return setBool(z, t[0].Lt(&t[1])) },
		operations.Gt: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return setBool(z, t[0].Gt(&t[1])) },
		operations.Eq: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return setBool(z, t[0].Eq(&t[1])) },
		operations.Byte: func(z *uint256.Int, t operands.Tuple) *uint256.Int {
			return z.Set(&t[1]).Byte(&t[0])
		},
		operations.Shl: func(z *uint256.Int, t operands.Tuple) *uint256.Int {
			if t[0].LtUint64(256) {
				return z.Lsh(&t[1], uint(t[0].Uint64()))
			}
			return z.Clear()
		},
		operations.Shr: func(z *uint256.Int, t operands.Tuple) *uint256.Int {
			if t[0].LtUint64(256) {
				return z.Rsh(&t[1], uint(t[0].Uint64()))
			}
			return z.Clear()
		},
		operations.Sar: func(z *uint256.Int, t operands.Tuple) *uint256.Int {
			if t[0].GtUint64(255) {
				if t[1].Sign() >= 0 {
					return z.Clear()
				}
				return z.SetAllOne()
			}
			return z.SRsh(&t[1], uint(t[0].Uint64()))
		},
		operations.AddMod: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.AddMod(&t[0], &t[1], &t[2]) },
		operations.MulMod: func(z *uint256.Int, t operands.Tuple) *uint256.Int { return z.MulMod(&t[0], &t[1], &t[2]) },
	}
}

// setBool sets z to 1 if b is true, otherwise 0.
func setBool(z *uint256.Int, b bool) *uint256.Int {
	if b {
		return z.SetOne()
	}
	return z.Clear()
}
