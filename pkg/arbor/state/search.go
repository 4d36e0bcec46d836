package state

import (
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// Matches reports whether name contains query, ignoring case.
// An empty query matches nothing.
func Matches(name, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

// Search returns the path of the first node, in pre-order, whose name
// matches query.
func Search(root *tree.Node, query string) (string, bool) {
	if query == "" {
		return "", false
	}
	var found string
	ok := false
	tree.Walk(root, func(n *tree.Node, ancestors []*tree.Node) bool {
		if ok {
			return false
		}
		if Matches(n.Name, query) {
			found = treepath.FromAncestors(ancestors, n)
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// SearchSelect replaces the selection with the first match for query.
// Without a match the selection is returned as is.
func SearchSelect(sel Selection, root *tree.Node, query string) Selection {
	if p, ok := Search(root, query); ok {
		return Selection{p}
	}
	return sel
}

// Highlight is the display state of a node.
type Highlight int

const (
	HighlightDefault Highlight = iota
	HighlightMatched
	HighlightSelected
)

func (h Highlight) String() string {
	switch h {
	case HighlightSelected:
		return "selected"
	case HighlightMatched:
		return "matched"
	default:
		return "default"
	}
}

// HighlightOf classifies a node. Selection wins over a search match.
func HighlightOf(path, name string, sel Selection, query string) Highlight {
	switch {
	case sel.Contains(path):
		return HighlightSelected
	case Matches(name, query):
		return HighlightMatched
	default:
		return HighlightDefault
	}
}
