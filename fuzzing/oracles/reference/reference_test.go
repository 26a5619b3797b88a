package reference

import (
	"math/rand"
	"testing"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles/native"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReferenceScenarios checks well-known EVM results.
func TestReferenceScenarios(t *testing.T) {
	oracle := NewOracle()

	result, err := oracle.Evaluate(operations.Add, operands.FromUint64s(2, 4))
	require.NoError(t, err)
	assert.Equal(t, uint64(6), result.Uint64())

	result, err = oracle.Evaluate(operations.Div, operands.FromUint64s(2, 0))
	require.NoError(t, err)
	assert.True(t, result.IsZero())

	signBit := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	result, err = oracle.Evaluate(operations.Sar, operands.NewTuple(uint256.NewInt(4), signBit))
	require.NoError(t, err)
	assert.Equal(t, "0xf800000000000000000000000000000000000000000000000000000000000000", result.Hex())

	result, err = oracle.Evaluate(operations.MulMod, operands.FromUint64s(2, 4, 6))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Uint64())

	_, err = oracle.Evaluate(operations.MulMod, operands.FromUint64s(2, 4))
	assert.True(t, errors.Is(err, operations.ErrArityMismatch))
}

// TestReferenceMatchesNative compares the reference against the native oracle, which is independently implemented.
func TestReferenceMatchesNative(t *testing.T) {
	reference := NewOracle()
	nativeOracle := native.NewOracle()

	values := append(operands.BoundaryValues(),
		*uint256.NewInt(0), *uint256.NewInt(1), *uint256.NewInt(7), *uint256.NewInt(30), *uint256.NewInt(31),
		*uint256.NewInt(32), *uint256.NewInt(255), *uint256.NewInt(256), *new(uint256.Int).Lsh(uint256.NewInt(1), 255))
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 16; i++ {
		raw := make([]byte, 1+rng.Intn(32))
		rng.Read(raw)
		values = append(values, *new(uint256.Int).SetBytes(raw))
	}

	for _, op := range operations.All() {
		for ai := range values {
			for bi := range values {
				tuple := operands.NewTuple(&values[ai], &values[bi])
				if op.Arity() == 3 {
					tuple = append(tuple, values[(ai+3*bi)%len(values)])
				}
				expected, err := nativeOracle.Evaluate(op, tuple)
				require.NoError(t, err)
				actual, err := reference.Evaluate(op, tuple)
				require.NoError(t, err)
				if !assert.Equal(t, expected.Hex(), actual.Hex(), "%v%v", op, tuple) {
					return
				}
			}
		}
	}
}
