package dependency

import "strings"

const (
	branchMiddle = "├── "
	branchLast   = "└── "
	indentMiddle = "│   "
	indentLast   = "    "
)

// Render draws the tree rooted at root, one line per node.
func Render(root *Node) string {
	return RenderWith(root, func(n *Node) string {
		return n.Origin().String()
	})
}

// RenderWith draws the tree using label for each node's text.
func RenderWith(root *Node, label func(*Node) string) string {
	var b strings.Builder
	b.WriteString(label(root))
	b.WriteByte('\n')
	renderChildren(&b, root, "", label)
	return b.String()
}

func renderChildren(b *strings.Builder, n *Node, indent string, label func(*Node) string) {
	for i, child := range n.Children() {
		branch, next := branchMiddle, indentMiddle
		if i == len(n.Children())-1 {
			branch, next = branchLast, indentLast
		}
		b.WriteString(indent)
		b.WriteString(branch)
		b.WriteString(label(child))
		b.WriteByte('\n')
		renderChildren(b, child, indent+next, label)
	}
}
