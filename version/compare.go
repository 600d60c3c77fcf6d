package version

// Compare returns -1, 0 or 1 when v is lower than, equal to or higher than
// other. Missing trailing components count as zero.
func (v *Version) Compare(other *Version) int {
	n := max(len(v.Components), len(other.Components))
	for i := range n {
		a, b := v.component(i), other.component(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Equals reports whether both versions are numerically identical.
func (v *Version) Equals(other *Version) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts before other.
func (v *Version) LessThan(other *Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts after other.
func (v *Version) GreaterThan(other *Version) bool {
	return v.Compare(other) > 0
}

// Max returns the highest version in versions, or nil for an empty slice.
func Max(versions []*Version) *Version {
	var best *Version
	for _, v := range versions {
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}
	return best
}
