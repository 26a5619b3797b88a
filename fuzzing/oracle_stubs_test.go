package fuzzing

import (
	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/crytic/u256diff/fuzzing/oracles/native"
	"github.com/holiman/uint256"
)

// stubOracle is an oracles.Oracle which defers to the native oracle unless evaluate overrides the result. Returning
// handled=false from evaluate falls back to the native result.
type stubOracle struct {
	name     string
	native   *native.Oracle
	evaluate func(op operations.Operation, args operands.Tuple, nativeValue uint256.Int) (value uint256.Int, err error, handled bool)
	calls    int
}

// newStubOracle creates a stubOracle with the given override.
func newStubOracle(evaluate func(op operations.Operation, args operands.Tuple, nativeValue uint256.Int) (uint256.Int, error, bool)) *stubOracle {
	return &stubOracle{name: "stub", native: native.NewOracle(), evaluate: evaluate}
}

// Name implements oracles.Oracle.
func (s *stubOracle) Name() string {
	return s.name
}

// Evaluate implements oracles.Oracle.
func (s *stubOracle) Evaluate(op operations.Operation, args operands.Tuple) (uint256.Int, error) {
	s.calls++
	nativeValue, err := s.native.Evaluate(op, args)
	if err != nil {
		return nativeValue, err
	}
	if s.evaluate != nil {
		if value, err, handled := s.evaluate(op, args, nativeValue); handled {
			return value, err
		}
	}
	return nativeValue, nil
}

// offByOneOn returns a stub override which adds one to the native result of op.
func offByOneOn(target operations.Operation) func(operations.Operation, operands.Tuple, uint256.Int) (uint256.Int, error, bool) {
	return func(op operations.Operation, args operands.Tuple, nativeValue uint256.Int) (uint256.Int, error, bool) {
		if op != target {
			return nativeValue, nil, false
		}
		var z uint256.Int
		z.AddUint64(&nativeValue, 1)
		return z, nil, true
	}
}

var _ oracles.Oracle = (*stubOracle)(nil)
