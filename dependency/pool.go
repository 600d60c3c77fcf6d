package dependency

import (
	"fmt"
	"sort"

	"github.com/willibrandon/gotctools/library"
)

// Prebuilt is a library available only as a compiled artifact, such as an
// entry of the TwinCAT library repository.
type Prebuilt interface {
	Reference() library.Reference
}

// Pool is the immutable set of libraries available to one resolution run.
// References are unique by Key; a wildcard and a concrete reference to the
// same library are distinct members.
type Pool struct {
	refs  []library.Reference
	units map[string]BuildUnit
}

// Len returns the number of distinct candidate references. A nil Pool is
// empty.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.refs)
}

// References returns the candidates ordered by key.
func (p *Pool) References() []library.Reference {
	if p == nil {
		return nil
	}
	return append([]library.Reference(nil), p.refs...)
}

// Unit returns the PLC project backing ref, if the reference was contributed
// by a buildable project.
func (p *Pool) Unit(ref library.Reference) (BuildUnit, bool) {
	if p == nil {
		return nil, false
	}
	unit, ok := p.units[ref.Key()]
	return unit, ok
}

// Matches returns every candidate compatible with ref, lowest version first.
func (p *Pool) Matches(ref library.Reference) []library.Reference {
	if p == nil {
		return nil
	}
	var matches []library.Reference
	for _, candidate := range p.refs {
		if candidate.Equal(ref) {
			matches = append(matches, candidate)
		}
	}
	library.SortByVersion(matches)
	return matches
}

// Select returns the highest-version candidate compatible with ref.
func (p *Pool) Select(ref library.Reference) (library.Reference, bool) {
	matches := p.Matches(ref)
	if len(matches) == 0 {
		return library.Reference{}, false
	}
	return matches[len(matches)-1], true
}

// PoolBuilder assembles a Pool from solutions, PLC projects, pre-built
// libraries and bare references.
type PoolBuilder struct {
	seen  map[string]library.Reference
	units map[string]BuildUnit
}

// NewPoolBuilder creates an empty builder.
func NewPoolBuilder() *PoolBuilder {
	return &PoolBuilder{
		seen:  make(map[string]library.Reference),
		units: make(map[string]BuildUnit),
	}
}

// AddSolution adds every PLC project of sol that can be installed as a
// library. Projects without library metadata are skipped.
func (b *PoolBuilder) AddSolution(sol Solution) error {
	subProjects, err := sol.SubProjects()
	if err != nil {
		return fmt.Errorf("list projects of %s: %w", sol.Path(), err)
	}
	for _, sub := range subProjects {
		units, err := sub.BuildUnits()
		if err != nil {
			return fmt.Errorf("list PLC projects of %s: %w", sub.Path(), err)
		}
		for _, unit := range units {
			b.AddUnit(unit)
		}
	}
	return nil
}

// AddUnit adds a PLC project as a buildable library. It reports false when
// the project does not publish a library.
func (b *PoolBuilder) AddUnit(unit BuildUnit) bool {
	ref, ok := unit.AsReference()
	if !ok {
		return false
	}
	b.add(ref)
	if _, exists := b.units[ref.Key()]; !exists {
		b.units[ref.Key()] = unit
	}
	return true
}

// AddLibrary adds a pre-built library.
func (b *PoolBuilder) AddLibrary(lib Prebuilt) {
	b.add(lib.Reference())
}

// AddReference adds a bare reference without sources.
func (b *PoolBuilder) AddReference(ref library.Reference) {
	b.add(ref)
}

func (b *PoolBuilder) add(ref library.Reference) {
	if _, exists := b.seen[ref.Key()]; !exists {
		b.seen[ref.Key()] = ref
	}
}

// Build returns the pool. The builder may keep being used; later pools are
// independent of earlier ones.
func (b *PoolBuilder) Build() *Pool {
	pool := &Pool{
		refs:  make([]library.Reference, 0, len(b.seen)),
		units: make(map[string]BuildUnit, len(b.units)),
	}
	for _, ref := range b.seen {
		pool.refs = append(pool.refs, ref)
	}
	sort.Slice(pool.refs, func(i, j int) bool {
		return pool.refs[i].Key() < pool.refs[j].Key()
	})
	for key, unit := range b.units {
		pool.units[key] = unit
	}
	return pool
}
