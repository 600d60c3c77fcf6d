package dependency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willibrandon/gotctools/library"
)

var (
	// ErrMissingLibraries matches any *MissingLibrariesError.
	ErrMissingLibraries = errors.New("missing libraries")

	// ErrCyclicDependency matches any *CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic library dependency")
)

// MissingLibrariesError is returned by BuildOrder when references could not
// be satisfied by any candidate.
type MissingLibrariesError struct {
	Missing []library.Reference
}

// Error implements the error interface
func (e *MissingLibrariesError) Error() string {
	names := make([]string, len(e.Missing))
	for i, ref := range e.Missing {
		names[i] = ref.String()
	}
	return fmt.Sprintf("unable to generate build order, missing libraries: %s", strings.Join(names, "; "))
}

// Is makes errors.Is(err, ErrMissingLibraries) hold.
func (e *MissingLibrariesError) Is(target error) bool {
	return target == ErrMissingLibraries
}

// CyclicDependencyError reports a PLC project that transitively references
// its own library.
type CyclicDependencyError struct {
	// Chain lists the PLC project paths from the first occurrence back to
	// the repeated one.
	Chain []string
}

// Error implements the error interface
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic library dependency: %s", strings.Join(e.Chain, " -> "))
}

// Is makes errors.Is(err, ErrCyclicDependency) hold.
func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}
