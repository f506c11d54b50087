package rowstore

import (
	"errors"
	"fmt"
)

var (
	// ErrUnfiltered is returned for update/delete requests without predicates.
	ErrUnfiltered = errors.New("update or delete without predicate")

	// ErrInvalidIdentifier is returned for table or column names outside [a-z0-9_].
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNothingReturned is returned when an insert produced no row.
	ErrNothingReturned = errors.New("no row returned")
)

// StoreError marks a failed row store call.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("rowstore: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err came from the row store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
