package state_test

import (
	"testing"

	"github.com/jamesainslie/arbor/pkg/arbor/internal/treetest"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/stretchr/testify/assert"
)

func TestClickSelect(t *testing.T) {
	t.Run("plain click replaces", func(t *testing.T) {
		got := state.ClickSelect(state.Selection{"root/a", "root/b"}, "root/c", false)
		assert.Equal(t, state.Selection{"root/c"}, got)
	})

	t.Run("plain click on selected keeps only it", func(t *testing.T) {
		got := state.ClickSelect(state.Selection{"root/a", "root/b"}, "root/b", false)
		assert.Equal(t, state.Selection{"root/b"}, got)
	})

	t.Run("modified click appends", func(t *testing.T) {
		got := state.ClickSelect(state.Selection{"root/a"}, "root/b", true)
		assert.Equal(t, state.Selection{"root/a", "root/b"}, got)
	})

	t.Run("modified click removes", func(t *testing.T) {
		got := state.ClickSelect(state.Selection{"root/a", "root/b"}, "root/a", true)
		assert.Equal(t, state.Selection{"root/b"}, got)
	})

	t.Run("input untouched", func(t *testing.T) {
		sel := state.Selection{"root/a"}
		_ = state.ClickSelect(sel, "root/b", true)
		assert.Equal(t, state.Selection{"root/a"}, sel)
	})
}

func TestPrimary(t *testing.T) {
	_, ok := state.Selection(nil).Primary()
	assert.False(t, ok)

	p, ok := state.Selection{"root/b", "root/a"}.Primary()
	assert.True(t, ok)
	assert.Equal(t, "root/b", p)
}

func TestReconcile(t *testing.T) {
	root := treetest.Sample()

	got := state.Reconcile(state.Selection{
		"root/src",
		"root/gone",
		"/src",
		"root/docs",
		"root/src",
	}, root)
	assert.Equal(t, state.Selection{"root/src", "root/docs"}, got)

	assert.Empty(t, state.Reconcile(state.Selection{"root"}, nil))
}

func TestRemapPrefix(t *testing.T) {
	sel := state.Selection{"root/src/utils", "root/src", "root/srcx", "root/docs"}
	got := state.RemapPrefix(sel, "root/src", "root/lib")
	assert.Equal(t, state.Selection{"root/lib/utils", "root/lib", "root/srcx", "root/docs"}, got)
}

func TestCollapse(t *testing.T) {
	t.Run("toggle", func(t *testing.T) {
		var c state.Collapse
		c = state.ToggleCollapse(c, "root/src")
		assert.True(t, c.IsCollapsed("root/src"))
		c = state.ToggleCollapse(c, "root/src")
		assert.False(t, c.IsCollapsed("root/src"))
		assert.False(t, c.IsCollapsed("root/other"))
	})

	t.Run("toggle copies", func(t *testing.T) {
		c := state.Collapse{"a": true}
		_ = state.ToggleCollapse(c, "a")
		assert.True(t, c["a"])
	})

	t.Run("set", func(t *testing.T) {
		c := state.Collapse{"root/x": true}.Set([]string{"root/a", "root/b"}, true)
		assert.Equal(t, state.Collapse{"root/x": true, "root/a": true, "root/b": true}, c)
	})

	t.Run("remap", func(t *testing.T) {
		c := state.Collapse{
			"root/src":       true,
			"root/src/utils": false,
			"root/srcx":      true,
			"root/lib":       false,
		}
		got := c.RemapPrefix("root/src", "root/lib")
		assert.Equal(t, state.Collapse{
			"root/lib":       true,
			"root/lib/utils": false,
			"root/srcx":      true,
		}, got)
	})

	t.Run("remap swap does not chain", func(t *testing.T) {
		c := state.Collapse{"root/a/x": true, "root/b/x": false, "root/c": true}
		got := c.RemapPrefixes(map[string]string{
			"root/a/x": "root/b/x",
			"root/b/x": "root/a/x",
		})
		assert.Equal(t, state.Collapse{"root/b/x": true, "root/a/x": false, "root/c": true}, got)
	})
}

func TestSearch(t *testing.T) {
	root := treetest.Sample()

	t.Run("first pre-order match", func(t *testing.T) {
		p, ok := state.Search(root, "comp")
		assert.True(t, ok)
		assert.Equal(t, "root/src/components", p)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		p, ok := state.Search(root, "UTIL")
		assert.True(t, ok)
		assert.Equal(t, "root/src/utils", p)
	})

	t.Run("parent before children", func(t *testing.T) {
		p, ok := state.Search(root, "s")
		assert.True(t, ok)
		assert.Equal(t, "root/src", p)
	})

	t.Run("empty query", func(t *testing.T) {
		_, ok := state.Search(root, "")
		assert.False(t, ok)
	})

	t.Run("select replaces", func(t *testing.T) {
		got := state.SearchSelect(state.Selection{"root/docs", "root/test"}, root, "comp")
		assert.Equal(t, state.Selection{"root/src/components"}, got)
	})

	t.Run("select without match is a no-op", func(t *testing.T) {
		sel := state.Selection{"root/docs"}
		assert.Equal(t, sel, state.SearchSelect(sel, root, "zzz"))
	})

	t.Run("nil tree", func(t *testing.T) {
		_, ok := state.Search(nil, "a")
		assert.False(t, ok)
	})
}

func TestHighlightOf(t *testing.T) {
	sel := state.Selection{"root/src"}
	assert.Equal(t, state.HighlightSelected, state.HighlightOf("root/src", "src", sel, "sr"))
	assert.Equal(t, state.HighlightMatched, state.HighlightOf("root/src/x", "Source", sel, "sou"))
	assert.Equal(t, state.HighlightDefault, state.HighlightOf("root/docs", "docs", sel, ""))
	assert.Equal(t, "matched", state.HighlightMatched.String())
}
