package version

import "fmt"

// Normalize parses a version string and returns its normalized form.
//
// Normalization removes leading zeros from each component while keeping the
// number of components, so TwinCAT's four-part versions stay four-part.
//
// Examples:
//   - "3.03.3.0" → "3.3.3.0"
//   - "01" → "1"
//   - " 1.2 " → "1.2"
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", fmt.Errorf("cannot normalize invalid version: %w", err)
	}
	return v.ToNormalizedString(), nil
}

// MustNormalize normalizes a version string, panicking on error.
func MustNormalize(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return normalized
}

// NormalizeOrOriginal attempts to normalize a version string.
// If normalization fails, returns the original string.
func NormalizeOrOriginal(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		return s
	}
	return normalized
}

// ToNormalizedString returns the canonical form without leading zeros.
func (v *Version) ToNormalizedString() string {
	return v.format()
}
