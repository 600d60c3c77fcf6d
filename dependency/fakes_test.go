package dependency

import (
	"errors"

	"github.com/willibrandon/gotctools/library"
)

type fakeSolution struct {
	path string
	subs []SubProject
	err  error
}

func (s *fakeSolution) Path() string                       { return s.path }
func (s *fakeSolution) SubProjects() ([]SubProject, error) { return s.subs, s.err }

type fakeSubProject struct {
	path  string
	units []BuildUnit
	err   error
}

func (s *fakeSubProject) Path() string                     { return s.path }
func (s *fakeSubProject) Name() string                     { return s.path }
func (s *fakeSubProject) BuildUnits() ([]BuildUnit, error) { return s.units, s.err }

type fakeUnit struct {
	path      string
	refs      []library.Reference
	publishes *library.Reference
	err       error
}

func (u *fakeUnit) Path() string                             { return u.path }
func (u *fakeUnit) Name() string                             { return u.path }
func (u *fakeUnit) References() ([]library.Reference, error) { return u.refs, u.err }
func (u *fakeUnit) AsReference() (library.Reference, bool) {
	if u.publishes == nil {
		return library.Reference{}, false
	}
	return *u.publishes, true
}

type fakePrebuilt struct {
	ref library.Reference
}

func (p fakePrebuilt) Reference() library.Reference { return p.ref }

var errProvider = errors.New("provider failed")

const company = "Industrial Brains B.V."

func ref(title, v string) library.Reference {
	return library.MustNew(title, v, company)
}

// unit creates a PLC project that references refs and optionally publishes
// a library.
func unit(path string, publishes *library.Reference, refs ...library.Reference) *fakeUnit {
	return &fakeUnit{path: path, refs: refs, publishes: publishes}
}

func publishes(title, v string) *library.Reference {
	r := ref(title, v)
	return &r
}

// solutionOf wraps units in a single-XAE-project solution.
func solutionOf(path string, units ...BuildUnit) *fakeSolution {
	return &fakeSolution{
		path: path,
		subs: []SubProject{&fakeSubProject{path: path + "/xae.tsproj", units: units}},
	}
}
