package store

import (
	"errors"
	"fmt"
)

// Common store errors.
var (
	// ErrCorrupt indicates a storage file holds malformed data.
	ErrCorrupt = errors.New("corrupt storage file")

	// ErrIO indicates a filesystem read or write failed.
	ErrIO = errors.New("storage i/o error")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store is closed")
)

// CorruptError wraps ErrCorrupt with the offending file.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt storage file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return ErrCorrupt
}

// IOError wraps ErrIO with the failed operation and file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return ErrIO
}

// IsCorrupt checks if an error is a corruption error.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// IsIO checks if an error is an i/o error.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}
