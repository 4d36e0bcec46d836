package tree_test

import (
	"testing"

	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	assert.True(t, tree.Equal(sample(), sample()))
	assert.True(t, tree.Equal(tree.Leaf("a"), tree.New("a")), "absent equals empty")
	assert.False(t, tree.StrictEqual(tree.Leaf("a"), tree.New("a")))
	assert.False(t, tree.Equal(tree.New("a"), tree.New("b")))
	assert.False(t, tree.Equal(tree.New("a", tree.Leaf("x")), tree.New("a")))
	assert.True(t, tree.Equal(nil, nil))
	assert.False(t, tree.Equal(nil, tree.Leaf("a")))
}

func TestWalk(t *testing.T) {
	t.Run("pre-order with ancestors", func(t *testing.T) {
		var names []string
		var depths []int
		tree.Walk(sample(), func(n *tree.Node, ancestors []*tree.Node) bool {
			names = append(names, n.Name)
			depths = append(depths, len(ancestors))
			return true
		})
		assert.Equal(t, []string{"root", "src", "components", "utils", "docs"}, names)
		assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)
	})

	t.Run("returning false prunes", func(t *testing.T) {
		var names []string
		tree.Walk(sample(), func(n *tree.Node, _ []*tree.Node) bool {
			names = append(names, n.Name)
			return n.Name != "src"
		})
		assert.Equal(t, []string{"root", "src", "docs"}, names)
	})

	t.Run("nil root", func(t *testing.T) {
		called := false
		tree.Walk(nil, func(*tree.Node, []*tree.Node) bool {
			called = true
			return true
		})
		assert.False(t, called)
	})
}

func TestCountAndHeight(t *testing.T) {
	assert.Equal(t, 5, tree.Count(sample()))
	assert.Equal(t, 2, tree.Height(sample()))
	assert.Equal(t, 0, tree.Height(tree.Leaf("a")))
	assert.Equal(t, -1, tree.Height(nil))
	assert.Equal(t, 0, tree.Count(nil))
}

func TestAt(t *testing.T) {
	root := sample()
	assert.Same(t, root, tree.At(root, nil))
	assert.Equal(t, "utils", tree.At(root, []int{0, 1}).Name)
	assert.Nil(t, tree.At(root, []int{0, 5}))
	assert.Nil(t, tree.At(root, []int{1, 0}))
}

func TestReplaceAt(t *testing.T) {
	t.Run("rebuilds only the spine", func(t *testing.T) {
		root := sample()
		out := tree.ReplaceAt(root, []int{0, 0}, func(n *tree.Node) *tree.Node {
			return n.WithName("widgets")
		})

		assert.Equal(t, "components", root.Children[0].Children[0].Name, "input untouched")
		assert.Equal(t, "widgets", out.Children[0].Children[0].Name)
		assert.NotSame(t, root, out)
		assert.NotSame(t, root.Children[0], out.Children[0])
		assert.Same(t, root.Children[1], out.Children[1], "docs shared")
		assert.Same(t, root.Children[0].Children[1], out.Children[0].Children[1], "utils shared")
	})

	t.Run("nil removes the node", func(t *testing.T) {
		root := sample()
		out := tree.ReplaceAt(root, []int{0}, func(*tree.Node) *tree.Node { return nil })
		require.Len(t, out.Children, 1)
		assert.Equal(t, "docs", out.Children[0].Name)
		assert.Len(t, root.Children, 2)
	})

	t.Run("invalid chain is a no-op", func(t *testing.T) {
		root := sample()
		out := tree.ReplaceAt(root, []int{3}, func(*tree.Node) *tree.Node { return nil })
		assert.Same(t, root, out)
	})

	t.Run("identity fn returns same root", func(t *testing.T) {
		root := sample()
		out := tree.ReplaceAt(root, []int{0, 1}, func(n *tree.Node) *tree.Node { return n })
		assert.Same(t, root, out)
	})
}

func TestAppendChild(t *testing.T) {
	leaf := tree.Leaf("a")
	out := tree.AppendChild(leaf, tree.Leaf("b"))
	assert.Nil(t, leaf.Children)
	require.Len(t, out.Children, 1)
	assert.Equal(t, "b", out.Children[0].Name)
}
