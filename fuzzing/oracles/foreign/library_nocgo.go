//go:build !cgo

package foreign

import "github.com/pkg/errors"

// Open returns an error, as the foreign library can only be linked into binaries built with cgo enabled.
func Open() (Library, error) {
	return nil, errors.New("the foreign library is unavailable because this binary was built without cgo")
}

// Outstanding always returns zero, as no library is linked.
func Outstanding() int64 {
	return 0
}
