package oracles

import (
	"fmt"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Oracle describes an implementation of the 256-bit operations whose results are compared against another. An Oracle
// must be deterministic: evaluating the same operation over the same operands always yields the same result.
type Oracle interface {
	// Name returns a short human-readable identifier for the oracle, used in diagnostics.
	Name() string

	// Evaluate computes op over the provided operands. An error is returned if the oracle could not produce a value.
	Evaluate(op operations.Operation, args operands.Tuple) (uint256.Int, error)
}

// CheckOperands verifies that args can be fed to op. Oracles call this before doing any work so that an arity
// mismatch never reaches the underlying implementation.
func CheckOperands(op operations.Operation, args operands.Tuple) error {
	return operations.CheckArity([]operations.Operation{op}, args.Arity())
}

// AbortError describes an oracle which aborted while evaluating an operation, rather than returning a value or a
// reported error. The recovered value is retained as Cause.
type AbortError struct {
	// Oracle is the name of the oracle which aborted.
	Oracle string

	// Op is the operation being evaluated.
	Op operations.Operation

	// Cause is the value recovered from the abort.
	Cause any
}

// Error implements the error interface.
func (e *AbortError) Error() string {
	return fmt.Sprintf("%s oracle aborted evaluating %v: %v", e.Oracle, e.Op, e.Cause)
}

// Recover converts a recovered panic value into an *AbortError stored in err. It must be called directly from a
// deferred function: `defer func() { oracles.Recover(recover(), name, op, &err) }()`.
func Recover(recovered any, oracle string, op operations.Operation, err *error) {
	if recovered == nil {
		return
	}
	*err = errors.WithStack(&AbortError{Oracle: oracle, Op: op, Cause: recovered})
}
