package findings

import (
	"bytes"
	"sort"
	"time"

	"github.com/Masterminds/semver"
	"github.com/crytic/u256diff/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

// FormatVersion is the version of the database layout written by this package.
const FormatVersion = "1.0.0"

// supportedFormats is the constraint an existing database's format version must satisfy to be opened.
const supportedFormats = "^1.0.0"

var (
	bucketMeta         = []byte("meta")
	bucketRecords      = []byte("records")
	bucketFingerprints = []byte("fingerprints")
	keyFormatVersion   = []byte("format")
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("finding not found")

// Store is a persistent, deduplicated set of findings backed by a bbolt database.
type Store struct {
	db *bbolt.DB

	// now provides the current time when a record is added.
	now func() time.Time
}

// Open opens or creates the findings database at path. An existing database written with an incompatible format
// version is rejected.
func Open(path string) (*Store, error) {
	if err := utils.MakeParentDirectory(path); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open findings database %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketRecords, bucketFingerprints} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.WithStack(err)
			}
		}

		meta := tx.Bucket(bucketMeta)
		stored := meta.Get(keyFormatVersion)
		if stored == nil {
			return errors.WithStack(meta.Put(keyFormatVersion, []byte(FormatVersion)))
		}
		return checkFormat(string(stored))
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

// checkFormat verifies a stored format version can be read by this package.
func checkFormat(stored string) error {
	version, err := semver.NewVersion(stored)
	if err != nil {
		return errors.Wrapf(err, "findings database has an invalid format version %q", stored)
	}
	constraint, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return errors.WithStack(err)
	}
	if !constraint.Check(version) {
		return errors.Errorf("findings database format %v is not supported, expected %s", version, supportedFormats)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.WithStack(s.db.Close())
}

// Add records a finding. If a record with the same fingerprint exists, its occurrence count is incremented and the
// existing record is returned with isNew set to false. Otherwise, the record is assigned an ID and timestamp if it
// has none, and stored.
func (s *Store) Add(r Record) (stored Record, isNew bool, err error) {
	r.Fingerprint = Fingerprint(r.Kind, r.Operation, r.Operands)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		records := tx.Bucket(bucketRecords)
		fingerprints := tx.Bucket(bucketFingerprints)

		if id := fingerprints.Get(r.Fingerprint); id != nil {
			existing, err := decodeRecord(records.Get(id))
			if err != nil {
				return err
			}
			existing.Occurrences++
			stored = existing
			return putRecord(records, existing)
		}

		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.FirstSeen == 0 {
			r.FirstSeen = s.now().Unix()
		}
		r.Occurrences = 1
		if err := putRecord(records, r); err != nil {
			return err
		}
		stored, isNew = r, true
		return errors.WithStack(fingerprints.Put(r.Fingerprint, []byte(r.ID)))
	})
	return stored, isNew, err
}

// putRecord writes r into the records bucket under its ID.
func putRecord(records *bbolt.Bucket, r Record) error {
	b, err := r.encode()
	if err != nil {
		return err
	}
	return errors.WithStack(records.Put([]byte(r.ID), b))
}

// Get returns the record with the provided ID, or ErrNotFound. Unambiguous ID prefixes are accepted.
func (s *Store) Get(id string) (Record, error) {
	var record Record
	if id == "" {
		return record, errors.Wrap(ErrNotFound, "empty id")
	}
	err := s.db.View(func(tx *bbolt.Tx) error {
		records := tx.Bucket(bucketRecords)
		if b := records.Get([]byte(id)); b != nil {
			var err error
			record, err = decodeRecord(b)
			return err
		}

		// Fall back to a prefix lookup
		var match []byte
		prefix := []byte(id)
		cursor := records.Cursor()
		for k, v := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
			if match != nil {
				return errors.Errorf("finding id prefix %q is ambiguous", id)
			}
			match = v
		}
		if match == nil {
			return errors.Wrapf(ErrNotFound, "id %q", id)
		}
		var err error
		record, err = decodeRecord(match)
		return err
	})
	return record, err
}

// List returns every record, oldest first.
func (s *Store) List() ([]Record, error) {
	list := make([]Record, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(_, v []byte) error {
			record, err := decodeRecord(v)
			if err != nil {
				return err
			}
			list = append(list, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].FirstSeen != list[j].FirstSeen {
			return list[i].FirstSeen < list[j].FirstSeen
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Len returns the amount of distinct findings.
func (s *Store) Len() (int, error) {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return count, errors.WithStack(err)
}
