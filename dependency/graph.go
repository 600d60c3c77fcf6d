package dependency

import (
	"errors"
	"io"
	"path/filepath"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// UnitGraph is the directed graph of PLC projects keyed by cleaned path.
// An edge A → B means A references a library built from B.
type UnitGraph = graph.Graph[string, BuildUnit]

func unitHash(unit BuildUnit) string {
	return filepath.Clean(unit.Path())
}

// Graph collapses the tree into a graph of PLC projects. Repeated branches
// become shared vertices.
func (t *Tree) Graph() (UnitGraph, error) {
	g := graph.New(unitHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())

	var walkErr error
	t.Root.Walk(func(n *Node) bool {
		origin, ok := n.Origin().(BuildUnitOrigin)
		if !ok {
			return true
		}
		err := g.AddVertex(origin.Unit, graph.VertexAttribute("label", origin.Unit.Name()))
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			walkErr = err
			return false
		}
		if consumer := nearestUnit(n.Parent()); consumer != nil {
			err := g.AddEdge(unitHash(consumer), unitHash(origin.Unit))
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				walkErr = err
				return false
			}
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return g, nil
}

// nearestUnit returns the closest PLC project at or above n.
func nearestUnit(n *Node) BuildUnit {
	for ; n != nil; n = n.Parent() {
		if origin, ok := n.Origin().(BuildUnitOrigin); ok {
			return origin.Unit
		}
	}
	return nil
}

// TopologicalUnits returns the graph's project paths with every library
// before the projects that consume it.
func TopologicalUnits(g UnitGraph) ([]string, error) {
	order, err := graph.StableTopologicalSort(g, func(a, b string) bool { return a < b })
	if err != nil {
		return nil, err
	}
	// Edges point from consumer to library; reverse for build order.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// WriteDOT writes g in Graphviz DOT format.
func WriteDOT(w io.Writer, g UnitGraph) error {
	return draw.DOT(g, w)
}
