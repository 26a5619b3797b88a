package native

import (
	"testing"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/crytic/u256diff/utils"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse parses an operand or fails the test.
func mustParse(t *testing.T, s string) uint256.Int {
	v, err := operands.Parse(s)
	require.NoError(t, err)
	return v
}

// TestNativeOperations checks the native oracle against hand-computed EVM results.
func TestNativeOperations(t *testing.T) {
	signBit := "0x8000000000000000000000000000000000000000000000000000000000000000"
	testCases := []struct {
		op       operations.Operation
		args     []string
		expected string
	}{
		{operations.Add, []string{"2", "4"}, "6"},
		{operations.Add, []string{"-1", "1"}, "0"},
		{operations.Sub, []string{"0", "1"}, "-1"},
		{operations.Mul, []string{"3", "7"}, "21"},
		{operations.Div, []string{"2", "0"}, "0"},
		{operations.Div, []string{"9", "2"}, "4"},
		{operations.SDiv, []string{"-8", "2"}, "-4"},
		{operations.SDiv, []string{signBit, "-1"}, signBit},
		{operations.SDiv, []string{"5", "0"}, "0"},
		{operations.Mod, []string{"10", "3"}, "1"},
		{operations.Mod, []string{"10", "0"}, "0"},
		{operations.SMod, []string{"-10", "3"}, "-1"},
		{operations.SMod, []string{"10", "-3"}, "1"},
		{operations.Exp, []string{"2", "10"}, "1024"},
		{operations.Exp, []string{"2", "256"}, "0"},
		{operations.Exp, []string{"0", "0"}, "1"},
		{operations.SignExtend, []string{"0", "0xff"}, "-1"},
		{operations.SignExtend, []string{"0", "0x7f"}, "0x7f"},
		{operations.SignExtend, []string{"31", "0xff"}, "0xff"},
		{operations.SignExtend, []string{"0x1" + "0000000000000000000000000000000000000000", "0xff"}, "0xff"},
		{operations.Lt, []string{"1", "2"}, "1"},
		{operations.Lt, []string{"-1", "2"}, "0"},
		{operations.Gt, []string{"-1", "2"}, "1"},
		{operations.Eq, []string{"5", "5"}, "1"},
		{operations.Eq, []string{"5", "6"}, "0"},
		{operations.Byte, []string{"31", "0x1234"}, "0x34"},
		{operations.Byte, []string{"30", "0x1234"}, "0x12"},
		{operations.Byte, []string{"32", "0x1234"}, "0"},
		{operations.Shl, []string{"1", "1"}, "2"},
		{operations.Shl, []string{"255", "1"}, signBit},
		{operations.Shl, []string{"256", "1"}, "0"},
		{operations.Shr, []string{"1", "4"}, "2"},
		{operations.Shr, []string{"256", "-1"}, "0"},
		{operations.Sar, []string{"1", signBit}, "0xc000000000000000000000000000000000000000000000000000000000000000"},
		{operations.Sar, []string{"255", signBit}, "-1"},
		{operations.Sar, []string{"256", signBit}, "-1"},
		{operations.Sar, []string{"256", "1"}, "0"},
		{operations.Sar, []string{signBit, "1"}, "0"},
		{operations.AddMod, []string{"-1", "2", "10"}, "7"},
		{operations.AddMod, []string{"1", "2", "0"}, "0"},
		{operations.MulMod, []string{"2", "4", "6"}, "2"},
		{operations.MulMod, []string{"-1", "-1", "12"}, "9"},
		{operations.MulMod, []string{"2", "4", "0"}, "0"},
	}

	oracle := NewOracle()
	for _, tc := range testCases {
		args, err := operands.ParseTuple(tc.args)
		require.NoError(t, err)
		expected := mustParse(t, tc.expected)

		result, err := oracle.Evaluate(tc.op, args)
		require.NoError(t, err, "%v%v", tc.op, args)
		assert.Equal(t, expected.Hex(), result.Hex(), "%v%v", tc.op, args)

		// Evaluation must be repeatable and must not modify the operands
		again, err := oracle.Evaluate(tc.op, args)
		require.NoError(t, err)
		assert.Equal(t, result, again)
		reparsed, _ := operands.ParseTuple(tc.args)
		assert.True(t, reparsed.Equal(args))
	}
}

// TestNativeCoversRegistry verifies every registered operation has an evaluator.
func TestNativeCoversRegistry(t *testing.T) {
	oracle := NewOracle()
	for _, op := range operations.All() {
		_, ok := oracle.evaluators[op]
		assert.True(t, ok, "missing evaluator for %v", op)
	}
}

// TestNativeArityMismatch verifies the oracle refuses to evaluate a tuple of the wrong arity.
func TestNativeArityMismatch(t *testing.T) {
	oracle := NewOracle()
	_, err := oracle.Evaluate(operations.MulMod, operands.FromUint64s(2, 4))
	assert.True(t, errors.Is(err, operations.ErrArityMismatch))

	_, err = oracle.Evaluate(operations.Add, operands.FromUint64s(2, 4, 6))
	assert.True(t, errors.Is(err, operations.ErrArityMismatch))
}

// TestNativeAbortIsRecovered verifies a panic within an evaluator is converted into an *oracles.AbortError.
func TestNativeAbortIsRecovered(t *testing.T) {
	oracle := NewOracle()
	oracle.evaluators[operations.Div] = func(z *uint256.Int, args operands.Tuple) *uint256.Int {
		panic("integer divide by zero")
	}

	_, err := oracle.Evaluate(operations.Div, operands.FromUint64s(2, 0))
	require.Error(t, err)

	var abortErr *oracles.AbortError
	require.True(t, errors.As(err, &abortErr))
	assert.Equal(t, Name, abortErr.Oracle)
	assert.Equal(t, operations.Div, abortErr.Op)
	assert.Equal(t, "integer divide by zero", abortErr.Cause)
}

// TestNativeDeterministic evaluates every operation twice over every boundary tuple and expects identical results and
// untouched operands.
func TestNativeDeterministic(t *testing.T) {
	oracle := NewOracle()
	choices := append(operands.BoundaryValues(), *uint256.NewInt(0), *uint256.NewInt(1),
		*new(uint256.Int).Lsh(uint256.NewInt(1), 255))

	for _, op := range operations.All() {
		for _, values := range utils.PermutationsWithRepetition(choices, op.Arity()) {
			args := operands.Tuple(values)
			original := args.Clone()

			first, err := oracle.Evaluate(op, args)
			require.NoError(t, err)
			second, err := oracle.Evaluate(op, args)
			require.NoError(t, err)
			assert.Equal(t, first.Hex(), second.Hex(), "%v%v", op, args)
			assert.True(t, args.Equal(original), "%v modified its operands", op)
		}
	}
}
