package fuzzing

import (
	"github.com/crytic/u256diff/fuzzing/findings"
	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/version"
	"github.com/pkg/errors"
)

// Record converts the failure into a findings.Record attributed to the provided campaign.
func (f *Failure) Record(campaignID string) findings.Record {
	record := findings.Record{
		Kind:        f.Kind.String(),
		Operation:   f.Op.String(),
		Operands:    f.Operands.Hex(),
		Seed:        f.Seed.Hex(),
		Input:       f.Input,
		ToolVersion: version.Version,
		CampaignID:  campaignID,
	}
	if len(record.Seed) == 0 {
		record.Seed = nil
	}
	if f.Native != nil {
		record.Native = f.Native.Hex()
	}
	if f.Foreign != nil {
		record.Foreign = f.Foreign.Hex()
	}
	if f.Cause != nil {
		record.Cause = f.Cause.Error()
	}
	record.Fingerprint = findings.Fingerprint(record.Kind, record.Operation, record.Operands)
	return record
}

// ReplayCase returns the operation and operands of a recorded finding.
func ReplayCase(record findings.Record) (operations.Operation, operands.Tuple, error) {
	op, err := operations.Parse(record.Operation)
	if err != nil {
		return op, nil, errors.Wrapf(err, "finding %v", record.ID)
	}
	args, err := operands.ParseTuple(record.Operands)
	if err != nil {
		return op, nil, errors.Wrapf(err, "finding %v", record.ID)
	}
	if args.Arity() != op.Arity() {
		return op, nil, errors.Wrapf(operations.ErrArityMismatch, "finding %v records %d operands for %v", record.ID, args.Arity(), op)
	}
	return op, args, nil
}
