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

// Triage classifies a replayed comparison against a third, reference oracle.
type Triage uint8

const (
	// TriageAgreement indicates the native and foreign oracles agree.
	TriageAgreement Triage = iota
	// TriageForeignDeviates indicates the native oracle matches the reference and the foreign oracle does not.
	TriageForeignDeviates
	// TriageNativeDeviates indicates the foreign oracle matches the reference and the native oracle does not.
	TriageNativeDeviates
	// TriageBothDeviate indicates neither oracle matches the reference.
	TriageBothDeviate
	// TriageUndetermined indicates the reference oracle could not produce a value.
	TriageUndetermined
)

// String returns a short description of the triage outcome.
func (t Triage) String() string {
	switch t {
	case TriageAgreement:
		return "oracles agree"
	case TriageForeignDeviates:
		return "foreign oracle deviates from the reference"
	case TriageNativeDeviates:
		return "native oracle deviates from the reference"
	case TriageBothDeviate:
		return "both oracles deviate from the reference"
	default:
		return "undetermined"
	}
}

// ReplayResult describes the outcome of replaying one operation over one operand tuple.
type ReplayResult struct {
	// Op is the replayed operation.
	Op operations.Operation
	// Operands is the replayed tuple.
	Operands operands.Tuple
	// Verdict is the comparator's verdict for the native and foreign oracles.
	Verdict Verdict
	// Reference is the reference oracle's result, or nil if no reference was used or it failed.
	Reference *uint256.Int
	// ReferenceErr is the reference oracle's error, if any.
	ReferenceErr error
	// Triage classifies the verdict against the reference.
	Triage Triage
}

// String renders the result as a multi-line report.
func (r ReplayResult) String() string {
	var sb strings.Builder
	if r.Verdict.Agree() {
		sb.WriteString(fmt.Sprintf("%v%v = %v\n", r.Op, r.Operands, formatResult(&r.Verdict.Value)))
	} else {
		sb.WriteString(r.Verdict.Failure.Report())
	}
	if r.Reference != nil {
		sb.WriteString(fmt.Sprintf("reference: %v\n", formatResult(r.Reference)))
	} else if r.ReferenceErr != nil {
		sb.WriteString(fmt.Sprintf("reference: %v\n", r.ReferenceErr))
	}
	sb.WriteString(fmt.Sprintf("triage:    %v", r.Triage))
	return sb.String()
}

// Replay compares the native and foreign oracles for a single operation over args, and triages the verdict using the
// reference oracle if one is provided. Replays are not subject to the campaign's operation set.
func Replay(native oracles.Oracle, foreign oracles.Oracle, reference oracles.Oracle, op operations.Operation, args operands.Tuple) (ReplayResult, error) {
	if !op.Valid() {
		return ReplayResult{}, errors.Errorf("invalid operation %v", op)
	}
	comparator, err := NewComparator(native, foreign, []operations.Operation{op}, op.Arity())
	if err != nil {
		return ReplayResult{}, err
	}

	result := ReplayResult{
		Op:       op,
		Operands: args,
		Verdict:  comparator.Compare(op, args),
	}
	if reference != nil {
		value, err := reference.Evaluate(op, args)
		if err != nil {
			result.ReferenceErr = err
		} else {
			result.Reference = &value
		}
	}
	result.Triage = triage(result.Verdict, result.Reference)
	return result, nil
}

// triage classifies a verdict against a reference value.
func triage(verdict Verdict, reference *uint256.Int) Triage {
	if verdict.Agree() {
		return TriageAgreement
	}
	if reference == nil {
		return TriageUndetermined
	}

	failure := verdict.Failure
	nativeMatches := failure.Native != nil && failure.Native.Eq(reference)
	foreignMatches := failure.Foreign != nil && failure.Foreign.Eq(reference)
	switch {
	case nativeMatches && !foreignMatches:
		return TriageForeignDeviates
	case foreignMatches && !nativeMatches:
		return TriageNativeDeviates
	default:
		return TriageBothDeviate
	}
}
