package library

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomparable is returned when a version ordering is requested against
	// a wildcard ("*") reference.
	ErrIncomparable = errors.New("cannot rank a library version against any version")

	// ErrMismatchedIdentity is returned by SelectLatest when the references do
	// not share the same title and company.
	ErrMismatchedIdentity = errors.New("library references do not have matching title and company")
)

// FormatError reports text that is not a valid library reference.
type FormatError struct {
	// Text is the rejected input.
	Text string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid library string %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("invalid library string %q", e.Text)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}
