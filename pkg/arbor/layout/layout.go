// Package layout positions the nodes of a projected tree for drawing.
//
// The layout is a simple tidy tree: leaves take consecutive vertical slots in
// pre-order, each parent is centered between its first and last child, and
// depth maps to the horizontal offset.
package layout

import (
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// Options sets the spacing.
type Options struct {
	// NodeHeight is the vertical distance between leaf slots.
	NodeHeight float64
	// LevelWidth is the horizontal distance between depths.
	LevelWidth float64
}

// DefaultOptions matches the spacing of the interactive diagram.
func DefaultOptions() Options {
	return Options{NodeHeight: 40, LevelWidth: 160}
}

// Node is a positioned node.
type Node struct {
	Path        string
	Name        string
	Depth       int
	X, Y        float64
	HasChildren bool
}

// Link joins a parent to one of its children by index into Result.Nodes.
type Link struct {
	Parent, Child int
}

// Result is a computed layout. Nodes are in pre-order.
type Result struct {
	Nodes  []Node
	Links  []Link
	Width  float64
	Height float64
}

// Compute lays out root, normally a projection. Zero or negative spacing
// falls back to DefaultOptions.
func Compute(root *tree.Node, opts Options) Result {
	def := DefaultOptions()
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = def.NodeHeight
	}
	if opts.LevelWidth <= 0 {
		opts.LevelWidth = def.LevelWidth
	}
	if root == nil {
		return Result{}
	}

	var res Result
	slot := 0
	maxDepth := 0

	var place func(n *tree.Node, path string, depth int) int
	place = func(n *tree.Node, path string, depth int) int {
		i := len(res.Nodes)
		res.Nodes = append(res.Nodes, Node{
			Path:        path,
			Name:        n.Name,
			Depth:       depth,
			X:           float64(depth) * opts.LevelWidth,
			HasChildren: n.HasChildren(),
		})
		if depth > maxDepth {
			maxDepth = depth
		}

		if !n.HasChildren() {
			res.Nodes[i].Y = float64(slot) * opts.NodeHeight
			slot++
			return i
		}
		first, last := -1, -1
		for _, c := range n.Children {
			ci := place(c, treepath.Child(path, c.Name), depth+1)
			res.Links = append(res.Links, Link{Parent: i, Child: ci})
			if first < 0 {
				first = ci
			}
			last = ci
		}
		res.Nodes[i].Y = (res.Nodes[first].Y + res.Nodes[last].Y) / 2
		return i
	}
	place(root, root.Name, 0)

	res.Width = float64(maxDepth) * opts.LevelWidth
	res.Height = float64(slot-1) * opts.NodeHeight
	return res
}
