// Package reference provides a slow, independent rendition of the operations over math/big. It is never compared in
// the hot loop; replays consult it to tell which of two disagreeing oracles is wrong.
package reference

import (
	"math/big"

	"github.com/crytic/medusa-geth/common/math"
	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/crytic/u256diff/utils"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Name is the identifier reported by the reference oracle.
const Name = "reference"

// bitWidth is the width of every operand and result.
const bitWidth = 256

var (
	modulus = new(big.Int).Lsh(big.NewInt(1), bitWidth)
	big256  = big.NewInt(bitWidth)
	big32   = big.NewInt(32)
	big30   = big.NewInt(30)
)

// Oracle evaluates operations with arbitrary precision integers, wrapping results to 256 bits.
type Oracle struct{}

// NewOracle returns a reference Oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// Name implements oracles.Oracle.
func (o *Oracle) Name() string {
	return Name
}

// Evaluate implements oracles.Oracle.
func (o *Oracle) Evaluate(op operations.Operation, args operands.Tuple) (result uint256.Int, err error) {
	if err = oracles.CheckOperands(op, args); err != nil {
		return result, err
	}
	defer func() {
		oracles.Recover(recover(), Name, op, &err)
	}()

	in := make([]*big.Int, len(args))
	for i := range args {
		in[i] = args[i].ToBig()
	}

	out, err := evaluate(op, in)
	if err != nil {
		return result, err
	}
	if overflow := result.SetFromBig(wrap(out)); overflow {
		return result, errors.Errorf("reference result for %v does not fit 256 bits", op)
	}
	return result, nil
}

// wrap reduces x into the unsigned 256-bit range.
func wrap(x *big.Int) *big.Int {
	return new(big.Int).And(x, math.MaxBig256)
}

// signed interprets an unsigned 256-bit value as two's complement.
func signed(x *big.Int) *big.Int {
	return utils.ConstrainIntegerToBitLength(x, true, bitWidth)
}

func boolean(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

// shiftAmount clamps a shift operand to at most 256.
func shiftAmount(x *big.Int) uint {
	if x.Cmp(big256) >= 0 {
		return bitWidth
	}
	return uint(x.Uint64())
}

func evaluate(op operations.Operation, in []*big.Int) (*big.Int, error) {
	z := new(big.Int)
	switch op {
	case operations.Add:
		return z.Add(in[0], in[1]), nil
	case operations.Sub:
		return z.Sub(in[0], in[1]), nil
	case operations.Mul:
		return z.Mul(in[0], in[1]), nil
	case operations.Div:
		if in[1].Sign() == 0 {
			return z, nil
		}
		return z.Quo(in[0], in[1]), nil
	case operations.SDiv:
		if in[1].Sign() == 0 {
			return z, nil
		}
		// Quo truncates towards zero
		return z.Quo(signed(in[0]), signed(in[1])), nil
	case operations.Mod:
		if in[1].Sign() == 0 {
			return z, nil
		}
		return z.Rem(in[0], in[1]), nil
	case operations.SMod:
		if in[1].Sign() == 0 {
			return z, nil
		}
		// Rem takes the sign of the dividend
		return z.Rem(signed(in[0]), signed(in[1])), nil
	case operations.Exp:
		return z.Exp(in[0], in[1], modulus), nil
	case operations.SignExtend:
		if in[0].Cmp(big30) > 0 {
			return z.Set(in[1]), nil
		}
		width := int(in[0].Uint64())*8 + 8
		return utils.ConstrainIntegerToBitLength(in[1], true, width), nil
	case operations.Lt:
		return boolean(in[0].Cmp(in[1]) < 0), nil
	case operations.Gt:
		return boolean(in[0].Cmp(in[1]) > 0), nil
	case operations.Eq:
		return boolean(in[0].Cmp(in[1]) == 0), nil
	case operations.Byte:
		if in[0].Cmp(big32) >= 0 {
			return z, nil
		}
		z.Rsh(in[1], uint(31-in[0].Uint64())*8)
		return z.And(z, big.NewInt(0xff)), nil
	case operations.Shl:
		return z.Lsh(in[1], shiftAmount(in[0])), nil
	case operations.Shr:
		return z.Rsh(in[1], shiftAmount(in[0])), nil
	case operations.Sar:
		// Rsh of a negative value rounds towards negative infinity
		return z.Rsh(signed(in[1]), shiftAmount(in[0])), nil
	case operations.AddMod:
		if in[2].Sign() == 0 {
			return z, nil
		}
		z.Add(in[0], in[1])
		return z.Mod(z, in[2]), nil
	case operations.MulMod:
		if in[2].Sign() == 0 {
			return z, nil
		}
		z.Mul(in[0], in[1])
		return z.Mod(z, in[2]), nil
	default:
		return nil, errors.Errorf("reference oracle does not implement %v", op)
	}
}
