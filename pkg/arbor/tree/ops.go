package tree

// Equal reports whether two trees have the same shape and names.
// Absent and empty children compare equal.
func Equal(a, b *Node) bool {
	return equal(a, b, false)
}

// StrictEqual is Equal but also distinguishes absent from empty children.
func StrictEqual(a, b *Node) bool {
	return equal(a, b, true)
}

func equal(a, b *Node, strict bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || len(a.Children) != len(b.Children) {
		return false
	}
	if strict && (a.Children == nil) != (b.Children == nil) {
		return false
	}
	for i := range a.Children {
		if !equal(a.Children[i], b.Children[i], strict) {
			return false
		}
	}
	return true
}

// Walk visits every node in pre-order, children in declaration order.
// ancestors holds the chain from the root down to the node's parent and must
// not be retained. Returning false from fn skips the node's descendants.
func Walk(root *Node, fn func(n *Node, ancestors []*Node) bool) {
	if root == nil {
		return
	}
	walk(root, nil, fn)
}

func walk(n *Node, ancestors []*Node, fn func(*Node, []*Node) bool) {
	if !fn(n, ancestors) {
		return
	}
	ancestors = append(ancestors, n)
	for _, child := range n.Children {
		walk(child, ancestors, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node, []*Node) bool {
		total++
		return true
	})
	return total
}

// Height returns the number of edges on the longest root-to-leaf path.
// A single node has height 0; a nil tree has height -1.
func Height(root *Node) int {
	if root == nil {
		return -1
	}
	h := 0
	for _, child := range root.Children {
		if ch := Height(child) + 1; ch > h {
			h = ch
		}
	}
	return h
}

// At follows a chain of child indices from root.
// It returns nil if any index is out of range.
func At(root *Node, idx []int) *Node {
	n := root
	for _, i := range idx {
		if n == nil || i < 0 || i >= len(n.Children) {
			return nil
		}
		n = n.Children[i]
	}
	return n
}

// ReplaceAt rebuilds the spine from root to the node at idx, replacing that
// node with fn(node). Nodes off the spine are shared with the input tree.
// If fn returns nil the node is removed from its parent; removing the root
// yields nil. An invalid chain returns root unchanged.
func ReplaceAt(root *Node, idx []int, fn func(*Node) *Node) *Node {
	if root == nil {
		return nil
	}
	if len(idx) == 0 {
		return fn(root)
	}
	i := idx[0]
	if i < 0 || i >= len(root.Children) {
		return root
	}
	child := root.Children[i]
	replaced := ReplaceAt(child, idx[1:], fn)
	if replaced == child {
		return root
	}

	children := make([]*Node, 0, len(root.Children))
	children = append(children, root.Children[:i]...)
	if replaced != nil {
		children = append(children, replaced)
	}
	children = append(children, root.Children[i+1:]...)
	return root.WithChildren(children)
}

// AppendChild returns a copy of n with child appended to its children.
func AppendChild(n, child *Node) *Node {
	children := make([]*Node, 0, len(n.Children)+1)
	children = append(children, n.Children...)
	children = append(children, child)
	return n.WithChildren(children)
}
