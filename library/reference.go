// Package library models TwinCAT library references.
//
// A reference names a library by title, version and company in the format
// used by TwinCAT project files and the library repository:
//
//	Tc2_Standard, 3.3.3.0 (Beckhoff Automation GmbH)
//
// The version may be "*", which matches any version of the same library.
package library

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/willibrandon/gotctools/version"
)

// AnyVersion is the textual wildcard version.
const AnyVersion = "*"

var referencePattern = regexp.MustCompile(`^(.*), (.*) \((.*)\)`)

// Reference is an immutable request for a library.
type Reference struct {
	// Title is the library name
	Title string

	// Version is nil for the wildcard "*"
	Version *version.Version

	// Company is the library publisher
	Company string
}

// New creates a reference from its parts. versionText may be "*".
func New(title, versionText, company string) (Reference, error) {
	ref := Reference{Title: title, Company: company}
	if versionText == AnyVersion {
		return ref, nil
	}
	v, err := version.Parse(versionText)
	if err != nil {
		return Reference{}, err
	}
	ref.Version = v
	return ref, nil
}

// MustNew is like New but panics on an invalid version.
func MustNew(title, versionText, company string) Reference {
	ref, err := New(title, versionText, company)
	if err != nil {
		panic(err)
	}
	return ref
}

// Parse reads a reference in the "<title>, <version> (<company>)" format.
func Parse(text string) (Reference, error) {
	matches := referencePattern.FindStringSubmatch(text)
	if matches == nil {
		return Reference{}, &FormatError{Text: text}
	}

	ref, err := New(matches[1], matches[2], matches[3])
	if err != nil {
		return Reference{}, &FormatError{Text: text, Err: err}
	}
	return ref, nil
}

// MustParse is like Parse but panics on malformed text.
func MustParse(text string) Reference {
	ref, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return ref
}

// IsAnyVersion reports whether the version is the wildcard.
func (r Reference) IsAnyVersion() bool {
	return r.Version == nil
}

// VersionString returns the version text, "*" for the wildcard.
func (r Reference) VersionString() string {
	if r.Version == nil {
		return AnyVersion
	}
	return r.Version.String()
}

// String returns the canonical "<title>, <version> (<company>)" form.
func (r Reference) String() string {
	return fmt.Sprintf("%s, %s (%s)", r.Title, r.VersionString(), r.Company)
}

// Key returns the exact composite identity used for de-duplication.
// Unlike Equal it is case-sensitive and does not treat "*" as a match.
func (r Reference) Key() string {
	return r.String()
}

// SameLibrary reports whether title and company match, ignoring case.
func (r Reference) SameLibrary(other Reference) bool {
	return strings.EqualFold(r.Title, other.Title) &&
		strings.EqualFold(r.Company, other.Company)
}

// Equal reports whether the references are compatible: same library and
// either equal versions or a wildcard on either side.
func (r Reference) Equal(other Reference) bool {
	if !r.SameLibrary(other) {
		return false
	}
	if r.IsAnyVersion() || other.IsAnyVersion() {
		return true
	}
	return r.Version.Equals(other.Version)
}

// GreaterThan reports whether r ranks above other. A wildcard on the left
// ranks above any version; a wildcard on the right yields ErrIncomparable.
// References to different libraries never rank above each other.
func (r Reference) GreaterThan(other Reference) (bool, error) {
	if other.IsAnyVersion() {
		return false, fmt.Errorf("compare %s with %s: %w", r, other, ErrIncomparable)
	}
	if !r.SameLibrary(other) {
		return false, nil
	}
	if r.IsAnyVersion() {
		return true, nil
	}
	return r.Version.GreaterThan(other.Version), nil
}

// GreaterOrEqual reports whether r ranks above or is equal to other.
func (r Reference) GreaterOrEqual(other Reference) (bool, error) {
	gt, err := r.GreaterThan(other)
	if err != nil {
		return false, err
	}
	return gt || r.Equal(other), nil
}

// SelectLatest returns the reference with the highest version. The boolean
// is false for an empty slice. All references must share title and company.
func SelectLatest(refs []Reference) (Reference, bool, error) {
	switch len(refs) {
	case 0:
		return Reference{}, false, nil
	case 1:
		return refs[0], true, nil
	}

	first := refs[0]
	for _, ref := range refs[1:] {
		if ref.Title != first.Title || ref.Company != first.Company {
			return Reference{}, false, fmt.Errorf("%s and %s: %w", first, ref, ErrMismatchedIdentity)
		}
	}

	sorted := append([]Reference(nil), refs...)
	SortByVersion(sorted)
	return sorted[len(sorted)-1], true, nil
}

// CompareVersions orders two references by version only. Wildcards rank
// above every concrete version and equal to each other.
func CompareVersions(a, b Reference) int {
	switch {
	case a.IsAnyVersion() && b.IsAnyVersion():
		return 0
	case a.IsAnyVersion():
		return 1
	case b.IsAnyVersion():
		return -1
	}
	return a.Version.Compare(b.Version)
}

// SortByVersion sorts refs by ascending version. References with equal
// versions are ordered by Key so the result does not depend on input order.
func SortByVersion(refs []Reference) {
	sort.SliceStable(refs, func(i, j int) bool {
		if c := CompareVersions(refs[i], refs[j]); c != 0 {
			return c < 0
		}
		return refs[i].Key() < refs[j].Key()
	})
}
