// Package dependency resolves the build order of TwinCAT solutions.
//
// A Resolver expands a root solution into a tree: solution → XAE projects →
// PLC projects → library references → the PLC projects that provide those
// libraries, and so on. References that cannot be satisfied from the
// candidate Pool are collected in the tree's MissingSet. BuildOrder then
// linearizes the tree so every library is built before the projects that
// reference it.
package dependency

import (
	"path/filepath"

	"github.com/willibrandon/gotctools/library"
)

// Solution is a buildable solution made of sub-projects.
type Solution interface {
	Path() string
	SubProjects() ([]SubProject, error)
}

// SubProject is an XAE project holding PLC projects.
type SubProject interface {
	Path() string
	Name() string
	BuildUnits() ([]BuildUnit, error)
}

// BuildUnit is a PLC project: the smallest independently compilable unit.
type BuildUnit interface {
	Path() string
	Name() string

	// References returns the libraries the unit depends on.
	References() ([]library.Reference, error)

	// AsReference returns the library the unit publishes, if it is one.
	AsReference() (library.Reference, bool)
}

// Kind identifies an Origin variant.
type Kind int

const (
	// KindSolution is a root or library solution
	KindSolution Kind = iota
	// KindSubProject is an XAE project
	KindSubProject
	// KindBuildUnit is a PLC project
	KindBuildUnit
	// KindReference is an unresolved library reference
	KindReference
	// KindLibrary is a pre-built library without sources
	KindLibrary
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSolution:
		return "solution"
	case KindSubProject:
		return "subproject"
	case KindBuildUnit:
		return "buildunit"
	case KindReference:
		return "reference"
	case KindLibrary:
		return "library"
	default:
		return "unknown"
	}
}

// Origin is the payload of a tree node. The set of implementations is closed:
// SolutionOrigin, SubProjectOrigin, BuildUnitOrigin, ReferenceOrigin and
// LibraryOrigin.
type Origin interface {
	Kind() Kind
	String() string
	sealed()
}

// SolutionOrigin wraps a Solution.
type SolutionOrigin struct {
	Solution Solution
}

// SubProjectOrigin wraps a SubProject.
type SubProjectOrigin struct {
	SubProject SubProject
}

// BuildUnitOrigin wraps a BuildUnit.
type BuildUnitOrigin struct {
	Unit BuildUnit
}

// ReferenceOrigin is a library reference awaiting resolution.
type ReferenceOrigin struct {
	Reference library.Reference
}

// LibraryOrigin is a resolved, pre-built library. It never has children.
type LibraryOrigin struct {
	Reference library.Reference
}

func (SolutionOrigin) Kind() Kind   { return KindSolution }
func (SubProjectOrigin) Kind() Kind { return KindSubProject }
func (BuildUnitOrigin) Kind() Kind  { return KindBuildUnit }
func (ReferenceOrigin) Kind() Kind  { return KindReference }
func (LibraryOrigin) Kind() Kind    { return KindLibrary }

func (o SolutionOrigin) String() string   { return o.Solution.Path() }
func (o SubProjectOrigin) String() string { return o.SubProject.Path() }
func (o BuildUnitOrigin) String() string  { return o.Unit.Path() }
func (o ReferenceOrigin) String() string  { return o.Reference.String() }
func (o LibraryOrigin) String() string    { return o.Reference.String() }

func (SolutionOrigin) sealed()   {}
func (SubProjectOrigin) sealed() {}
func (BuildUnitOrigin) sealed()  {}
func (ReferenceOrigin) sealed()  {}
func (LibraryOrigin) sealed()    {}

// samePath compares two project paths after cleaning.
func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
