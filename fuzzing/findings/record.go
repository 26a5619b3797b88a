package findings

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Record describes a persisted failure. Operands and results are stored in canonical hexadecimal form so a record can
// be replayed without the raw input that produced it.
type Record struct {
	// ID uniquely identifies the record.
	ID string `cbor:"1,keyasint"`

	// Fingerprint is the keccak256 hash identifying equivalent failures. See Fingerprint.
	Fingerprint []byte `cbor:"2,keyasint"`

	// Kind describes the failure kind.
	Kind string `cbor:"3,keyasint"`

	// Operation is the mnemonic of the failing operation.
	Operation string `cbor:"4,keyasint"`

	// Operands are the operands of the failing comparison.
	Operands []string `cbor:"5,keyasint"`

	// Native and Foreign are the oracle results, empty if an oracle produced none.
	Native  string `cbor:"6,keyasint,omitempty"`
	Foreign string `cbor:"7,keyasint,omitempty"`

	// Cause describes the error behind the failure, if any.
	Cause string `cbor:"8,keyasint,omitempty"`

	// Seed is the decoded seed tuple the failing operands were derived from.
	Seed []string `cbor:"9,keyasint,omitempty"`

	// Input is the raw input of the failing iteration.
	Input []byte `cbor:"10,keyasint,omitempty"`

	// ToolVersion is the version of the tool which recorded the failure.
	ToolVersion string `cbor:"11,keyasint"`

	// CampaignID identifies the campaign which first recorded the failure.
	CampaignID string `cbor:"12,keyasint,omitempty"`

	// FirstSeen is the UNIX time the failure was first recorded.
	FirstSeen int64 `cbor:"13,keyasint"`

	// Occurrences counts how many times the failure was recorded.
	Occurrences uint64 `cbor:"14,keyasint"`
}

// FirstSeenTime returns FirstSeen as a time.Time.
func (r *Record) FirstSeenTime() time.Time {
	return time.Unix(r.FirstSeen, 0)
}

// FingerprintHex returns the fingerprint in hexadecimal form.
func (r *Record) FingerprintHex() string {
	return hex.EncodeToString(r.Fingerprint)
}

// encode serializes the record in canonical CBOR.
func (r *Record) encode() ([]byte, error) {
	b, err := cbor.Marshal(r, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// decodeRecord deserializes a record previously produced by encode.
func decodeRecord(b []byte) (Record, error) {
	var r Record
	if err := cbor.Unmarshal(b, &r); err != nil {
		return r, errors.Wrap(err, "could not decode finding record")
	}
	return r, nil
}

// Fingerprint identifies a failure by its kind, operation and operands. Failures with the same fingerprint are the
// same finding, regardless of the raw input or campaign that produced them.
func Fingerprint(kind string, operation string, operands []string) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(kind))
	hash.Write([]byte{0})
	hash.Write([]byte(strings.ToUpper(operation)))
	for _, operand := range operands {
		hash.Write([]byte{0})
		hash.Write([]byte(strings.ToLower(operand)))
	}
	return hash.Sum(nil)
}
