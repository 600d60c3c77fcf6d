package dependency

// Node is one element of a dependency tree. A node owns its children; the
// parent pointer is only used to walk up the ancestry.
type Node struct {
	origin   Origin
	parent   *Node
	children []*Node
}

// NewNode creates a detached node.
func NewNode(origin Origin) *Node {
	return &Node{origin: origin}
}

// Origin returns the node payload.
func (n *Node) Origin() Origin {
	return n.origin
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Depth returns the distance to the root (root = 0).
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// AddChild appends a new child for origin and returns it.
func (n *Node) AddChild(origin Origin) *Node {
	child := &Node{origin: origin, parent: n}
	n.children = append(n.children, child)
	return child
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Levels groups the subtree by breadth-first depth; Levels()[0] is {n}.
func (n *Node) Levels() [][]*Node {
	var levels [][]*Node
	current := []*Node{n}
	for len(current) > 0 {
		levels = append(levels, current)
		var next []*Node
		for _, node := range current {
			next = append(next, node.children...)
		}
		current = next
	}
	return levels
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}
