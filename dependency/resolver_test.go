package dependency

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_UnitWithoutReferences(t *testing.T) {
	u := unit("/ws/App/App.plcproj", nil)

	tree, err := Resolve(context.Background(), BuildUnitOrigin{Unit: u}, NewPoolBuilder().Build())
	require.NoError(t, err)

	assert.Equal(t, 1, tree.Root.Count())
	assert.Empty(t, tree.Root.Children())
	assert.Equal(t, 0, tree.Missing.Len())
}

func TestResolve_NilPoolIsEmpty(t *testing.T) {
	libA := ref("LibA", "*")
	root := solutionOf("/ws/App/App.sln", unit("/ws/App/PLC/PLC.plcproj", nil, libA))

	tree, err := Resolve(context.Background(), SolutionOrigin{Solution: root}, nil)
	require.NoError(t, err)

	assert.True(t, tree.Missing.Contains(libA))
}

func TestResolve_SolutionShape(t *testing.T) {
	plc := unit("/ws/App/PLC/PLC.plcproj", nil, ref("LibA", "*"))
	root := solutionOf("/ws/App/App.sln", plc)

	tree, err := Resolve(context.Background(), SolutionOrigin{Solution: root}, NewPoolBuilder().Build())
	require.NoError(t, err)

	levels := tree.Root.Levels()
	require.Len(t, levels, 4)
	assert.Equal(t, KindSolution, levels[0][0].Origin().Kind())
	assert.Equal(t, KindSubProject, levels[1][0].Origin().Kind())
	assert.Equal(t, KindBuildUnit, levels[2][0].Origin().Kind())
	assert.Equal(t, KindReference, levels[3][0].Origin().Kind())
	assert.Equal(t, 3, levels[3][0].Depth())
}

func TestResolve_MissingLibrary(t *testing.T) {
	libA := ref("LibA", "*")
	root := solutionOf("/ws/App/App.sln", unit("/ws/App/PLC/PLC.plcproj", nil, libA))

	tree, err := Resolve(context.Background(), SolutionOrigin{Solution: root}, NewPoolBuilder().Build())
	require.NoError(t, err)

	require.Equal(t, 1, tree.Missing.Len())
	assert.True(t, tree.Missing.Contains(libA))

	_, err = tree.BuildOrder()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLibraries)

	var missingErr *MissingLibrariesError
	require.True(t, errors.As(err, &missingErr))
	require.Len(t, missingErr.Missing, 1)
	assert.Equal(t, libA.Key(), missingErr.Missing[0].Key())
}

func TestResolve_MissingSetIsSharedAcrossBranches(t *testing.T) {
	libA := ref("LibA", "*")
	libB := ref("LibB", "1.0.0.0")
	root := solutionOf("/ws/App/App.sln",
		unit("/ws/App/One/One.plcproj", nil, libA),
		unit("/ws/App/Two/Two.plcproj", nil, libA, libB),
	)

	tree, err := Resolve(context.Background(), SolutionOrigin{Solution: root}, NewPoolBuilder().Build())
	require.NoError(t, err)

	assert.Equal(t, 2, tree.Missing.Len())
	assert.True(t, tree.Missing.Contains(libA))
	assert.True(t, tree.Missing.Contains(libB))
}

func TestResolve_SelectsLatestVersion(t *testing.T) {
	libV1 := unit("/ws/LibA_v1/LibA.plcproj", publishes("LibA", "1.0.0.0"))
	libV2 := unit("/ws/LibA_v2/LibA.plcproj", publishes("LibA", "2.0.0.0"))
	app := unit("/ws/App/PLC/PLC.plcproj", nil, ref("LibA", "*"))

	orders := [][]BuildUnit{{libV1, libV2}, {libV2, libV1}}
	for _, candidates := range orders {
		b := NewPoolBuilder()
		for _, c := range candidates {
			b.AddUnit(c)
		}

		tree, err := Resolve(context.Background(), BuildUnitOrigin{Unit: app}, b.Build())
		require.NoError(t, err)

		refNode := tree.Root.Children()[0]
		require.Len(t, refNode.Children(), 1)
		resolved := refNode.Children()[0].Origin().(BuildUnitOrigin)
		assert.Equal(t, libV2.Path(), resolved.Unit.Path())
	}
}

func TestResolve_PrebuiltLibraryIsTerminal(t *testing.T) {
	app := unit("/ws/App/PLC/PLC.plcproj", nil, ref("Tc2_Standard", "*"))

	b := NewPoolBuilder()
	b.AddLibrary(fakePrebuilt{ref: ref("Tc2_Standard", "3.3.3.0")})

	tree, err := Resolve(context.Background(), BuildUnitOrigin{Unit: app}, b.Build())
	require.NoError(t, err)

	assert.Equal(t, 0, tree.Missing.Len())
	refNode := tree.Root.Children()[0]
	assert.Equal(t, KindReference, refNode.Origin().Kind())
	assert.Empty(t, refNode.Children())
}

func TestResolve_ConcreteVersionMustMatch(t *testing.T) {
	wanted := ref("LibA", "2.0.0.0")
	app := unit("/ws/App/PLC/PLC.plcproj", nil, wanted)

	b := NewPoolBuilder()
	b.AddUnit(unit("/ws/LibA/LibA.plcproj", publishes("LibA", "1.0.0.0")))

	tree, err := Resolve(context.Background(), BuildUnitOrigin{Unit: app}, b.Build())
	require.NoError(t, err)
	assert.True(t, tree.Missing.Contains(wanted))
}

func TestResolve_TransitiveDiscovery(t *testing.T) {
	libB := unit("/ws/LibB/LibB.plcproj", publishes("LibB", "1.0.0.0"))
	libA := unit("/ws/LibA/LibA.plcproj", publishes("LibA", "1.0.0.0"), ref("LibB", "*"))
	app := unit("/ws/App/PLC/PLC.plcproj", nil, ref("LibA", "*"))

	b := NewPoolBuilder()
	b.AddUnit(libA)
	b.AddUnit(libB)

	tree, err := Resolve(context.Background(), BuildUnitOrigin{Unit: app}, b.Build())
	require.NoError(t, err)

	// app -> ref A -> LibA -> ref B -> LibB
	assert.Equal(t, 5, tree.Root.Count())
	levels := tree.Root.Levels()
	require.Len(t, levels, 5)
	assert.Equal(t, libB.Path(), levels[4][0].Origin().String())
}

func TestResolve_DuplicateBranchesAreKept(t *testing.T) {
	shared := unit("/ws/Shared/Shared.plcproj", publishes("Shared", "1.0.0.0"))
	root := solutionOf("/ws/App/App.sln",
		unit("/ws/App/One/One.plcproj", nil, ref("Shared", "*")),
		unit("/ws/App/Two/Two.plcproj", nil, ref("Shared", "*")),
	)

	b := NewPoolBuilder()
	b.AddUnit(shared)

	tree, err := Resolve(context.Background(), SolutionOrigin{Solution: root}, b.Build())
	require.NoError(t, err)

	count := 0
	tree.Root.Walk(func(n *Node) bool {
		if o, ok := n.Origin().(BuildUnitOrigin); ok && o.Unit.Path() == shared.Path() {
			count++
		}
		return true
	})
	assert.Equal(t, 2, count)
}

func TestResolve_CyclicDependency(t *testing.T) {
	libA := unit("/ws/LibA/LibA.plcproj", publishes("LibA", "1.0.0.0"), ref("LibB", "*"))
	libB := unit("/ws/LibB/LibB.plcproj", publishes("LibB", "1.0.0.0"), ref("LibA", "*"))

	b := NewPoolBuilder()
	b.AddUnit(libA)
	b.AddUnit(libB)

	_, err := Resolve(context.Background(), BuildUnitOrigin{Unit: libA}, b.Build())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCyclicDependency)

	var cycleErr *CyclicDependencyError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{libA.Path(), libB.Path(), libA.Path()}, cycleErr.Chain)
}

func TestResolve_ProviderErrorsPropagate(t *testing.T) {
	tests := []struct {
		name string
		root Origin
	}{
		{"solution", SolutionOrigin{Solution: &fakeSolution{path: "/ws/a.sln", err: errProvider}}},
		{"subproject", SubProjectOrigin{SubProject: &fakeSubProject{path: "/ws/a.tsproj", err: errProvider}}},
		{"unit", BuildUnitOrigin{Unit: &fakeUnit{path: "/ws/a.plcproj", err: errProvider}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), tt.root, NewPoolBuilder().Build())
			assert.ErrorIs(t, err, errProvider)
		})
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, BuildUnitOrigin{Unit: unit("/ws/a.plcproj", nil)}, NewPoolBuilder().Build())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_LibraryRootHasNoChildren(t *testing.T) {
	tree, err := Resolve(context.Background(), LibraryOrigin{Reference: ref("LibA", "1.0")}, NewPoolBuilder().Build())
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Root.Count())
}
