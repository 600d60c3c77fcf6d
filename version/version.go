// Package version provides TwinCAT library version parsing and comparison.
//
// TwinCAT versions are dotted numeric release numbers such as "3.3.3.0".
// Any number of components is accepted; missing trailing components compare
// as zero, so "1.2" and "1.2.0.0" are the same version.
//
// Example:
//
//	v, err := version.Parse("3.3.3.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v.Major(), v.Minor()) // 3 3
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is wrapped by every error returned from Parse.
var ErrInvalidVersion = errors.New("invalid version")

// Version represents a TwinCAT library version.
type Version struct {
	// Components holds the numeric parts, most significant first.
	Components []int

	// originalString preserves the original version string
	originalString string
}

// String returns the string representation of the version.
func (v *Version) String() string {
	if v.originalString != "" {
		return v.originalString
	}
	return v.format()
}

// format creates a formatted version string.
func (v *Version) format() string {
	parts := make([]string, len(v.Components))
	for i, c := range v.Components {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}

// Major returns the first component.
func (v *Version) Major() int {
	return v.component(0)
}

// Minor returns the second component, or 0 if absent.
func (v *Version) Minor() int {
	return v.component(1)
}

// Build returns the third component, or 0 if absent.
func (v *Version) Build() int {
	return v.component(2)
}

// Revision returns the fourth component, or 0 if absent.
func (v *Version) Revision() int {
	return v.component(3)
}

func (v *Version) component(i int) int {
	if i < len(v.Components) {
		return v.Components[i]
	}
	return 0
}

// Parse parses a dotted numeric version string.
//
// Surrounding whitespace is ignored. Every component must be a non-negative
// decimal integer.
//
// Example:
//
//	v, err := Parse("1.0.1.0")
//	if err != nil {
//	    return err
//	}
func Parse(s string) (*Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: version string cannot be empty", ErrInvalidVersion)
	}

	numbers := strings.Split(trimmed, ".")
	v := &Version{
		Components:     make([]int, 0, len(numbers)),
		originalString: trimmed,
	}

	for _, number := range numbers {
		if number == "" || strings.TrimLeft(number, "0123456789") != "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, s, err)
		}
		v.Components = append(v.Components, n)
	}

	return v, nil
}

// MustParse parses a version string and panics on error.
// Use this only when you know the version string is valid.
func MustParse(s string) *Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}
