package dependency

import (
	"sort"

	"github.com/willibrandon/gotctools/library"
)

// MissingSet collects references that had no compatible candidate.
type MissingSet struct {
	refs map[string]library.Reference
}

// NewMissingSet creates an empty set.
func NewMissingSet() *MissingSet {
	return &MissingSet{refs: make(map[string]library.Reference)}
}

// Add records ref. Duplicate keys are ignored.
func (m *MissingSet) Add(ref library.Reference) {
	if _, ok := m.refs[ref.Key()]; !ok {
		m.refs[ref.Key()] = ref
	}
}

// Len returns the number of missing references.
func (m *MissingSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.refs)
}

// Contains reports whether a reference with the same key was recorded.
func (m *MissingSet) Contains(ref library.Reference) bool {
	if m == nil {
		return false
	}
	_, ok := m.refs[ref.Key()]
	return ok
}

// Sorted returns the references ordered by key.
func (m *MissingSet) Sorted() []library.Reference {
	if m == nil {
		return nil
	}
	refs := make([]library.Reference, 0, len(m.refs))
	for _, ref := range m.refs {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Key() < refs[j].Key()
	})
	return refs
}
