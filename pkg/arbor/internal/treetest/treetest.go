// Package treetest provides fixtures and rapid generators for tree tests.
package treetest

import (
	"fmt"

	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
	"pgregory.net/rapid"
)

// Sample returns the tree used throughout the tests:
//
//	root
//	├── src
//	│   ├── components
//	│   └── utils
//	│       └── strings
//	├── docs
//	└── test
func Sample() *tree.Node {
	return tree.New("root",
		tree.New("src",
			tree.New("components"),
			tree.New("utils", tree.New("strings")),
		),
		tree.New("docs"),
		tree.Leaf("test"),
	)
}

// Names is the alphabet generated trees draw node names from.
var Names = []string{"a", "b", "c", "d", "e", "src", "lib", "Docs"}

// Tree generates trees whose sibling names are unique, up to the given
// depth and fan-out. Leaves randomly carry absent or empty children.
func Tree(maxDepth, maxFanout int) *rapid.Generator[*tree.Node] {
	return rapid.Custom(func(t *rapid.T) *tree.Node {
		return genNode(t, "root", 0, maxDepth, maxFanout)
	})
}

func genNode(t *rapid.T, name string, depth, maxDepth, maxFanout int) *tree.Node {
	label := fmt.Sprintf("d%d", depth)
	if depth >= maxDepth {
		if rapid.Bool().Draw(t, label+"-absent") {
			return tree.Leaf(name)
		}
		return tree.New(name)
	}

	names := rapid.SliceOfNDistinct(rapid.SampledFrom(Names), 0, maxFanout, rapid.ID[string]).Draw(t, label+"-names")
	if len(names) == 0 && rapid.Bool().Draw(t, label+"-absent") {
		return tree.Leaf(name)
	}
	children := make([]*tree.Node, 0, len(names))
	for _, n := range names {
		children = append(children, genNode(t, n, depth+1, maxDepth, maxFanout))
	}
	return tree.New(name, children...)
}

// Path draws one existing node path from root.
func Path(t *rapid.T, root *tree.Node, label string) string {
	return rapid.SampledFrom(treepath.All(root)).Draw(t, label)
}
