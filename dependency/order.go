package dependency

// BuildOrder returns the PLC projects to build, dependencies first, followed
// by the root. It fails with *MissingLibrariesError when any reference is
// unresolved and returns no partial order in that case.
//
// Nodes are swept level by level starting at the deepest level. A PLC
// project is skipped when it was already scheduled or when it belongs to the
// trunk itself (its grandparent is the root solution), because building the
// root compiles it anyway.
func (t *Tree) BuildOrder() ([]Origin, error) {
	if t.Missing.Len() > 0 {
		return nil, &MissingLibrariesError{Missing: t.Missing.Sorted()}
	}

	levels := t.Root.Levels()
	var order []Origin
	var scheduled []string

	for i := len(levels) - 1; i > 0; i-- {
		for _, node := range levels[i] {
			unit, ok := node.Origin().(BuildUnitOrigin)
			if !ok || t.isTrunkUnit(node) {
				continue
			}
			if containsPath(scheduled, unit.Unit.Path()) {
				continue
			}
			scheduled = append(scheduled, unit.Unit.Path())
			order = append(order, unit)
		}
	}

	return append(order, t.Root.Origin()), nil
}

// isTrunkUnit reports whether node is one of the root solution's own PLC
// projects.
func (t *Tree) isTrunkUnit(node *Node) bool {
	parent := node.Parent()
	return parent != nil &&
		parent.Origin().Kind() == KindSubProject &&
		parent.Parent() == t.Root
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if samePath(p, path) {
			return true
		}
	}
	return false
}
