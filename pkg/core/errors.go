package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound = errors.New("note not found")
	ErrStorage  = errors.New("storage failure")
	ErrIndex    = errors.New("position out of range")

	ErrNotWatchable = errors.New("repository does not support watching")
)

// StorageError reports an I/O or persistence-layer failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) hold for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IndexError reports an out-of-range list position.
type IndexError struct {
	Position int
	Size     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("position %d out of range [0,%d)", e.Position, e.Size)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}

// NotFoundError returns an error for a missing note that matches ErrNotFound.
func NotFoundError(id int64) error {
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}
