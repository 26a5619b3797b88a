package foreign

import (
	"github.com/Masterminds/semver"
	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/crytic/u256diff/logging"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Name is the identifier reported by the foreign oracle.
const Name = "foreign"

// SupportedVersions is the constraint a Library ABI version must satisfy to be used.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Oracle evaluates operations by calling into a Library.
type Oracle struct {
	// lib is the foreign library calls are made into.
	lib Library

	// version is the parsed ABI version of lib.
	version *semver.Version

	// logger describes the Oracle's log object that can be used to log important events
	logger *logging.Logger
}

// NewOracle creates an Oracle over lib after verifying lib's ABI version is supported.
func NewOracle(lib Library) (*Oracle, error) {
	if lib == nil {
		return nil, errors.New("could not create foreign oracle: no library provided")
	}
	version, err := semver.NewVersion(lib.Version())
	if err != nil {
		return nil, errors.Wrapf(err, "foreign library reported an invalid version %q", lib.Version())
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !constraint.Check(version) {
		return nil, errors.Errorf("foreign library version %v is not supported, expected %s", version, SupportedVersions)
	}

	o := &Oracle{
		lib:     lib,
		version: version,
		logger:  logging.GlobalLogger.NewSubLogger("module", "foreign"),
	}
	o.logger.Debug("Loaded foreign library version ", version.String())
	return o, nil
}

// Name implements oracles.Oracle.
func (o *Oracle) Name() string {
	return Name
}

// Version returns the ABI version of the underlying library.
func (o *Oracle) Version() *semver.Version {
	return o.version
}

// Evaluate implements oracles.Oracle. A nonzero status is returned as a *FailureError and the output slots are never
// read. On success the result buffer is copied and released before Evaluate returns, whether or not it held a valid
// operand.
func (o *Oracle) Evaluate(op operations.Operation, args operands.Tuple) (uint256.Int, error) {
	var result uint256.Int
	if err := oracles.CheckOperands(op, args); err != nil {
		return result, err
	}

	encoded := args.Bytes()
	inputs := make([][]byte, len(encoded))
	for i := range encoded {
		inputs[i] = encoded[i][:]
	}

	status, ptr, size := o.lib.Call(op, inputs)
	if status != StatusOK {
		return result, errors.WithStack(&FailureError{Op: op, Status: status})
	}

	buf := newResultBuffer(o.lib, ptr, size)
	defer buf.release()

	data := buf.copyOut()
	if data == nil {
		return result, errors.WithStack(&MalformedResultError{Op: op, Size: size, Null: ptr == nil})
	}
	result.SetBytes(data)
	return result, nil
}
