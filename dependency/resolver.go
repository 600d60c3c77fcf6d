package dependency

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/willibrandon/gotctools/library"
	"github.com/willibrandon/gotctools/observability"
)

// Tree is the result of one resolution run.
type Tree struct {
	// Root is the trunk node.
	Root *Node

	// Missing holds references without a compatible candidate.
	Missing *MissingSet
}

// String renders the tree.
func (t *Tree) String() string {
	return Render(t.Root)
}

// Resolver builds dependency trees.
type Resolver struct {
	logger observability.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger observability.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{logger: observability.NewNullLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expands root against pool. Unsatisfied references are not an
// error; they are reported in Tree.Missing. Errors come from the project
// providers, from a cyclic library graph, or from ctx. A nil pool is
// treated as empty.
func (r *Resolver) Resolve(ctx context.Context, root Origin, pool *Pool) (tree *Tree, err error) {
	ctx, span := observability.StartResolveSpan(ctx, root.String(), pool.Len())
	start := time.Now()
	defer func() {
		observability.ResolveDuration.Observe(time.Since(start).Seconds())
		result := "success"
		switch {
		case err != nil:
			result = "error"
		case tree.Missing.Len() > 0:
			result = "missing"
		}
		observability.ResolutionsTotal.WithLabelValues(result).Inc()
		observability.EndSpanWithError(span, err)
	}()

	w := &walker{
		ctx:     ctx,
		pool:    pool,
		missing: NewMissingSet(),
		logger:  r.logger.ForContext("Root", root.String()),
	}

	rootNode := NewNode(root)
	if err := w.expand(rootNode); err != nil {
		return nil, err
	}

	if n := w.missing.Len(); n > 0 {
		observability.MissingLibrariesTotal.Add(float64(n))
	}
	r.logger.Debug("Resolved {Root} into {NodeCount} nodes with {MissingCount} missing libraries",
		root.String(), rootNode.Count(), w.missing.Len())

	return &Tree{Root: rootNode, Missing: w.missing}, nil
}

// Resolve expands root against pool with a default Resolver.
func Resolve(ctx context.Context, root Origin, pool *Pool) (*Tree, error) {
	return NewResolver().Resolve(ctx, root, pool)
}

// walker holds the state of one Resolve call.
type walker struct {
	ctx     context.Context
	pool    *Pool
	missing *MissingSet
	logger  observability.Logger

	// chain is the stack of PLC project paths being expanded.
	chain []string
}

func (w *walker) expand(node *Node) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	switch origin := node.Origin().(type) {
	case SolutionOrigin:
		subProjects, err := origin.Solution.SubProjects()
		if err != nil {
			return fmt.Errorf("list projects of %s: %w", origin.Solution.Path(), err)
		}
		sort.Slice(subProjects, func(i, j int) bool {
			return subProjects[i].Path() < subProjects[j].Path()
		})
		for _, sub := range subProjects {
			if err := w.expand(node.AddChild(SubProjectOrigin{SubProject: sub})); err != nil {
				return err
			}
		}

	case SubProjectOrigin:
		units, err := origin.SubProject.BuildUnits()
		if err != nil {
			return fmt.Errorf("list PLC projects of %s: %w", origin.SubProject.Path(), err)
		}
		sort.Slice(units, func(i, j int) bool {
			return units[i].Path() < units[j].Path()
		})
		for _, unit := range units {
			if err := w.expand(node.AddChild(BuildUnitOrigin{Unit: unit})); err != nil {
				return err
			}
		}

	case BuildUnitOrigin:
		return w.expandUnit(node, origin.Unit)

	case ReferenceOrigin:
		return w.expandReference(node, origin.Reference)

	case LibraryOrigin:
		// Pre-built: end of branch.

	default:
		return fmt.Errorf("cannot create dependency tree for %T", origin)
	}

	return nil
}

func (w *walker) expandUnit(node *Node, unit BuildUnit) error {
	path := unit.Path()
	for i, ancestor := range w.chain {
		if samePath(ancestor, path) {
			chain := append(append([]string(nil), w.chain[i:]...), path)
			return &CyclicDependencyError{Chain: chain}
		}
	}
	w.chain = append(w.chain, path)
	defer func() { w.chain = w.chain[:len(w.chain)-1] }()

	refs, err := unit.References()
	if err != nil {
		return fmt.Errorf("read library references of %s: %w", path, err)
	}
	sorted := append([]library.Reference(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key() < sorted[j].Key()
	})
	for _, ref := range sorted {
		if err := w.expand(node.AddChild(ReferenceOrigin{Reference: ref})); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) expandReference(node *Node, ref library.Reference) error {
	match, ok := w.pool.Select(ref)
	if !ok {
		w.logger.Debug("No candidate for {Reference}", ref.String())
		observability.RecordMissingLibrary(w.ctx, ref.String())
		w.missing.Add(ref)
		return nil
	}

	unit, buildable := w.pool.Unit(match)
	if !buildable {
		w.logger.Debug("Resolved {Reference} to pre-built {Library}", ref.String(), match.String())
		return nil
	}

	w.logger.Debug("Resolved {Reference} to {Project}", ref.String(), unit.Path())
	return w.expand(node.AddChild(BuildUnitOrigin{Unit: unit}))
}
