// Package projection derives the display tree from a canonical tree and its
// collapse state. The canonical tree is never modified.
package projection

import (
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// Project returns a fresh tree equal to root except that every collapsed node
// with at least one child has its children removed. The result depends only
// on root and collapsed.
func Project(root *tree.Node, collapsed state.Collapse) *tree.Node {
	if root == nil {
		return nil
	}
	return project(root, root.Name, collapsed)
}

func project(n *tree.Node, path string, collapsed state.Collapse) *tree.Node {
	out := &tree.Node{Name: n.Name}
	if n.Children == nil {
		return out
	}
	if collapsed.IsCollapsed(path) && n.HasChildren() {
		return out
	}
	out.Children = make([]*tree.Node, len(n.Children))
	for i, c := range n.Children {
		out.Children[i] = project(c, treepath.Child(path, c.Name), collapsed)
	}
	return out
}

// Row is one visible line of the projection.
type Row struct {
	Path  string
	Depth int
	// Node is the canonical node, children included.
	Node *tree.Node
	// Collapsed is set when the node's children are hidden.
	Collapsed bool
	// Hidden counts the descendants hidden by the collapse.
	Hidden int
	// Last is set when the node is its parent's last child.
	Last bool
}

// Visible flattens the projection into pre-order rows.
func Visible(root *tree.Node, collapsed state.Collapse) []Row {
	if root == nil {
		return nil
	}
	var rows []Row
	var visit func(n *tree.Node, path string, depth int, last bool)
	visit = func(n *tree.Node, path string, depth int, last bool) {
		row := Row{Path: path, Depth: depth, Node: n, Last: last}
		if collapsed.IsCollapsed(path) && n.HasChildren() {
			row.Collapsed = true
			row.Hidden = tree.Count(n) - 1
			rows = append(rows, row)
			return
		}
		rows = append(rows, row)
		for i, c := range n.Children {
			visit(c, treepath.Child(path, c.Name), depth+1, i == len(n.Children)-1)
		}
	}
	visit(root, root.Name, 0, true)
	return rows
}

// Index returns the position of the row with the given path, or -1.
func Index(rows []Row, path string) int {
	for i, r := range rows {
		if r.Path == path {
			return i
		}
	}
	return -1
}
