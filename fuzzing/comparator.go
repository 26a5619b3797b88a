package fuzzing

import (
	"fmt"
	"strings"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// FailureKind classifies a Failure.
type FailureKind uint8

const (
	// FailureKindDisagreement indicates both oracles returned a value and the values differ.
	FailureKindDisagreement FailureKind = iota
	// FailureKindForeignFailure indicates the foreign oracle could not produce a value.
	FailureKindForeignFailure
	// FailureKindNativeAbort indicates the native oracle aborted, or the iteration aborted outside an oracle.
	FailureKindNativeAbort
	// FailureKindConfiguration indicates an operation was paired with operands it cannot consume.
	FailureKindConfiguration
)

// String returns a short description of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureKindDisagreement:
		return "disagreement"
	case FailureKindForeignFailure:
		return "foreign failure"
	case FailureKindNativeAbort:
		return "native abort"
	case FailureKindConfiguration:
		return "configuration"
	default:
		return fmt.Sprintf("FailureKind(%d)", uint8(k))
	}
}

// Failure describes the first problem found while comparing the oracles. It carries everything needed to replay the
// case directly from its operands.
type Failure struct {
	// Kind classifies the failure.
	Kind FailureKind

	// Op is the operation being compared.
	Op operations.Operation

	// Operands is the tuple the operation was evaluated over.
	Operands operands.Tuple

	// Seed is the tuple decoded from the raw input which Operands was derived from. It is nil when the failure did
	// not originate from a Harness iteration.
	Seed operands.Tuple

	// Input is the raw input of the iteration, if any.
	Input []byte

	// Native is the native oracle's result, or nil if it produced none.
	Native *uint256.Int

	// Foreign is the foreign oracle's result, or nil if it produced none.
	Foreign *uint256.Int

	// Cause is the error behind any failure other than a disagreement.
	Cause error
}

// Error implements the error interface with a single-line diagnostic.
func (f *Failure) Error() string {
	var sb strings.Builder
	sb.WriteString(f.Kind.String())
	if f.Operands != nil {
		sb.WriteString(fmt.Sprintf(": %v%v", f.Op, f.Operands))
	}
	if f.Native != nil || f.Foreign != nil {
		sb.WriteString(fmt.Sprintf(": native=%s foreign=%s", formatResult(f.Native), formatResult(f.Foreign)))
	}
	if f.Cause != nil {
		sb.WriteString(": " + f.Cause.Error())
	}
	if f.Seed != nil {
		sb.WriteString(fmt.Sprintf(" (seed %v)", f.Seed))
	}
	return sb.String()
}

// Unwrap returns the underlying cause of the failure, if any.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// Report returns a multi-line diagnostic listing every operand and result in hexadecimal and decimal form.
func (f *Failure) Report() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s in %v\n", f.Kind, f.Op))
	for i := range f.Operands {
		sb.WriteString(fmt.Sprintf("  operand %d: %s (%s)\n", i, f.Operands[i].Hex(), f.Operands[i].Dec()))
	}
	if f.Native != nil {
		sb.WriteString(fmt.Sprintf("  native:    %s (%s)\n", f.Native.Hex(), f.Native.Dec()))
	}
	if f.Foreign != nil {
		sb.WriteString(fmt.Sprintf("  foreign:   %s (%s)\n", f.Foreign.Hex(), f.Foreign.Dec()))
	}
	if f.Cause != nil {
		sb.WriteString(fmt.Sprintf("  cause:     %v\n", f.Cause))
	}
	if f.Seed != nil {
		sb.WriteString(fmt.Sprintf("  seed:      %v\n", f.Seed))
	}
	return sb.String()
}

// formatResult renders an optional oracle result.
func formatResult(v *uint256.Int) string {
	if v == nil {
		return "none"
	}
	return v.Hex()
}

// Verdict is the outcome of comparing both oracles on one operation and tuple. Either both oracles agreed on Value,
// or Failure describes why they did not.
type Verdict struct {
	// Value is the agreed result. It is only meaningful when Failure is nil.
	Value uint256.Int

	// Failure describes the disagreement or error, if any.
	Failure *Failure
}

// Agree reports whether both oracles returned the same value.
func (v Verdict) Agree() bool {
	return v.Failure == nil
}

// Comparator evaluates a fixed set of operations on a native and a foreign oracle and compares their results.
type Comparator struct {
	native  oracles.Oracle
	foreign oracles.Oracle

	// ops describes the operations compared for every tuple, in order.
	ops []operations.Operation

	// arity describes the amount of operands every compared tuple must hold.
	arity int
}

// NewComparator creates a Comparator over the provided oracles. Every operation in ops must consume exactly arity
// operands, so an arity mismatch is rejected here rather than on a per-call basis.
func NewComparator(native oracles.Oracle, foreign oracles.Oracle, ops []operations.Operation, arity int) (*Comparator, error) {
	if native == nil || foreign == nil {
		return nil, errors.New("a comparator requires both a native and a foreign oracle")
	}
	if len(ops) == 0 {
		return nil, errors.New("a comparator requires at least one operation")
	}
	if err := operations.CheckArity(ops, arity); err != nil {
		return nil, err
	}
	return &Comparator{
		native:  native,
		foreign: foreign,
		ops:     append([]operations.Operation(nil), ops...),
		arity:   arity,
	}, nil
}

// Operations returns the operations compared by the Comparator.
func (c *Comparator) Operations() []operations.Operation {
	return append([]operations.Operation(nil), c.ops...)
}

// Arity returns the amount of operands every compared tuple must hold.
func (c *Comparator) Arity() int {
	return c.arity
}

// Compare evaluates op over args on both oracles. An oracle error is reported as its own failure kind, never as a
// disagreement. A panic escaping either oracle is reported as a native abort of op over args.
func (c *Comparator) Compare(op operations.Operation, args operands.Tuple) (verdict Verdict) {
	newFailure := func(kind FailureKind, cause error) Verdict {
		return Verdict{Failure: &Failure{Kind: kind, Op: op, Operands: args.Clone(), Cause: cause}}
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			verdict = newFailure(FailureKindNativeAbort, errors.Errorf("evaluation aborted: %v", recovered))
		}
	}()

	nativeValue, err := c.native.Evaluate(op, args)
	if err != nil {
		if errors.Is(err, operations.ErrArityMismatch) {
			return newFailure(FailureKindConfiguration, err)
		}
		return newFailure(FailureKindNativeAbort, err)
	}

	foreignValue, err := c.foreign.Evaluate(op, args)
	if err != nil {
		if errors.Is(err, operations.ErrArityMismatch) {
			return newFailure(FailureKindConfiguration, err)
		}
		verdict := newFailure(FailureKindForeignFailure, err)
		verdict.Failure.Native = &nativeValue
		return verdict
	}

	if !nativeValue.Eq(&foreignValue) {
		return Verdict{Failure: &Failure{
			Kind:     FailureKindDisagreement,
			Op:       op,
			Operands: args.Clone(),
			Native:   &nativeValue,
			Foreign:  &foreignValue,
		}}
	}
	return Verdict{Value: nativeValue}
}

// CompareBatch compares every operation over every tuple, operation by operation, and stops at the first failure.
// It returns the amount of comparisons made, including the failing one.
func (c *Comparator) CompareBatch(tuples []operands.Tuple) (int, *Failure) {
	for _, t := range tuples {
		if t.Arity() != c.arity {
			return 0, &Failure{
				Kind:     FailureKindConfiguration,
				Op:       operations.Unknown,
				Operands: t.Clone(),
				Cause:    errors.Wrapf(operations.ErrArityMismatch, "batch holds a %d operand tuple, expected %d", t.Arity(), c.arity),
			}
		}
	}

	comparisons := 0
	for _, op := range c.ops {
		for _, t := range tuples {
			comparisons++
			if verdict := c.Compare(op, t); !verdict.Agree() {
				return comparisons, verdict.Failure
			}
		}
	}
	return comparisons, nil
}
