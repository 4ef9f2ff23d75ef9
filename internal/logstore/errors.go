package logstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by *NotFoundError.
	ErrNotFound = errors.New("log entry not found")
	// ErrEmptyContent is returned by Save when content is required and blank.
	ErrEmptyContent = errors.New("log content is required")
	// ErrInvalidCollection is returned by ReplaceAll for entries that break
	// the collection invariants.
	ErrInvalidCollection = errors.New("invalid log collection")
)

// NotFoundError reports an update against an id with no matching entry.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("log entry %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageWriteError reports that the backend rejected a write. The stored
// collection is unchanged when this is returned.
type StorageWriteError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("%s: failed to write %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// StorageReadError reports that the backend could not be read or held data
// that does not parse as a collection.
type StorageReadError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("%s: failed to read %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is a read or write failure of the
// backend, as opposed to a validation or lookup error.
func IsStorageError(err error) bool {
	var r *StorageReadError
	var w *StorageWriteError
	return errors.As(err, &r) || errors.As(err, &w)
}
