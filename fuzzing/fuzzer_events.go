package fuzzing

import (
	"github.com/crytic/u256diff/events"
	"github.com/crytic/u256diff/fuzzing/findings"
)

// FuzzerEvents defines event emitters for a Fuzzer.
type FuzzerEvents struct {
	// FuzzerStarting emits events when the Fuzzer initialized state and is about to begin the main
	// execution loop for the fuzzing campaign.
	FuzzerStarting events.EventEmitter[FuzzerStartingEvent]

	// FuzzerStopping emits events when the Fuzzer is exiting its main fuzzing loop.
	FuzzerStopping events.EventEmitter[FuzzerStoppingEvent]

	// FailureFound emits events when an iteration produced a Failure.
	FailureFound events.EventEmitter[FuzzerFailureFoundEvent]
}

// FuzzerStartingEvent describes an event where a fuzzing.Fuzzer has initialized all state variables and is about to
// begin feeding inputs to its Harness.
type FuzzerStartingEvent struct {
	// Fuzzer represents the instance of the fuzzing.Fuzzer for which the event occurred.
	Fuzzer *Fuzzer
}

// FuzzerStoppingEvent describes an event where a fuzzing.Fuzzer is exiting the main fuzzing loop.
type FuzzerStoppingEvent struct {
	// Fuzzer represents the instance of the fuzzing.Fuzzer for which the event occurred.
	Fuzzer *Fuzzer

	// Err describes a potential error returned by the fuzzer run.
	Err error
}

// FuzzerFailureFoundEvent describes an event where an iteration of the fuzzing.Fuzzer produced a Failure.
type FuzzerFailureFoundEvent struct {
	// Fuzzer represents the instance of the fuzzing.Fuzzer for which the event occurred.
	Fuzzer *Fuzzer

	// Failure describes the failure found.
	Failure *Failure

	// Record describes the persisted finding, or nil if findings are not persisted.
	Record *findings.Record

	// IsNew indicates whether the finding was recorded for the first time.
	IsNew bool
}
