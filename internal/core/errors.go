package core

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrParse     = errors.New("malformed import data")
	ErrStorage   = errors.New("storage failure")
	ErrNoMatch   = errors.New("no snippet matches")
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// ParseError is returned by ImportJSON when the input is not a JSON array.
// Nothing is written when it is returned.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// StorageError wraps a failed store write. The in-memory state is left as it
// was before the operation started.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}
