package fuzzing

import (
	"sync/atomic"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/pkg/errors"
)

// HarnessState describes what a Harness is doing.
type HarnessState int32

const (
	// HarnessStateIdle indicates the Harness is waiting for its next input.
	HarnessStateIdle HarnessState = iota
	// HarnessStateEvaluating indicates the Harness is decoding an input and comparing its variants.
	HarnessStateEvaluating
)

// String returns a description of the state.
func (s HarnessState) String() string {
	if s == HarnessStateEvaluating {
		return "evaluating"
	}
	return "idle"
}

// Harness turns raw inputs into comparisons. Each call to Execute is one iteration: the input is decoded into a seed
// tuple, the seed is expanded into its variants, and every variant is compared under every operation of the
// Comparator. Any abort raised during an iteration is caught at this boundary and returned as a Failure.
type Harness struct {
	// comparator compares the oracles for each variant.
	comparator *Comparator

	// state holds the current HarnessState.
	state atomic.Int32

	// metrics counts the work the harness performed.
	executed    atomic.Uint64
	skipped     atomic.Uint64
	comparisons atomic.Uint64
}

// NewHarness creates a Harness running comparisons through comparator.
func NewHarness(comparator *Comparator) *Harness {
	return &Harness{comparator: comparator}
}

// State returns the current state of the Harness.
func (h *Harness) State() HarnessState {
	return HarnessState(h.state.Load())
}

// Arity returns the amount of operands each input is decoded into.
func (h *Harness) Arity() int {
	return h.comparator.Arity()
}

// Executed returns the amount of inputs which were long enough to be evaluated.
func (h *Harness) Executed() uint64 {
	return h.executed.Load()
}

// Skipped returns the amount of inputs skipped because they were too short.
func (h *Harness) Skipped() uint64 {
	return h.skipped.Load()
}

// Comparisons returns the amount of oracle comparisons made.
func (h *Harness) Comparisons() uint64 {
	return h.comparisons.Load()
}

// Execute runs one iteration over data. It returns nil if the input was too short to decode or if both oracles agreed
// on every comparison. Otherwise, it returns the first Failure, annotated with the seed tuple and raw input.
func (h *Harness) Execute(data []byte) (failure *Failure) {
	seed, err := operands.Decode(data, h.Arity())
	if errors.Is(err, operands.ErrInsufficientInput) {
		h.skipped.Add(1)
		return nil
	} else if err != nil {
		return &Failure{Kind: FailureKindConfiguration, Op: operations.Unknown, Input: append([]byte(nil), data...), Cause: err}
	}

	h.state.Store(int32(HarnessStateEvaluating))
	h.executed.Add(1)
	defer func() {
		if recovered := recover(); recovered != nil {
			failure = &Failure{
				Kind:  FailureKindNativeAbort,
				Op:    operations.Unknown,
				Cause: errors.Errorf("iteration aborted: %v", recovered),
			}
		}
		if failure != nil {
			failure.Seed = seed
			failure.Input = append([]byte(nil), data...)
		}
		h.state.Store(int32(HarnessStateIdle))
	}()

	comparisons, failure := h.comparator.CompareBatch(operands.GenerateVariants(seed))
	h.comparisons.Add(uint64(comparisons))
	return failure
}
