// Package state tracks which nodes are selected and which are collapsed.
//
// Both are keyed by path string and are plain values: every operation returns
// a new Selection or Collapse and leaves its input untouched. Paths are hints
// that must be re-validated against the live tree; see Reconcile.
package state

import (
	"slices"

	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// Selection is an ordered set of selected paths. The first entry is the
// primary selection shown by the inspector.
type Selection []string

// ClickSelect applies a click on path. A plain click replaces the selection
// with exactly path; a modified click toggles path's membership, appending it
// when absent.
func ClickSelect(sel Selection, path string, modified bool) Selection {
	if !modified {
		return Selection{path}
	}
	if sel.Contains(path) {
		return sel.Without(path)
	}
	out := make(Selection, 0, len(sel)+1)
	out = append(out, sel...)
	return append(out, path)
}

// Contains reports whether path is selected.
func (s Selection) Contains(path string) bool {
	return slices.Contains(s, path)
}

// Primary returns the first selected path.
func (s Selection) Primary() (string, bool) {
	if len(s) == 0 {
		return "", false
	}
	return s[0], true
}

// Without returns the selection minus path.
func (s Selection) Without(path string) Selection {
	out := make(Selection, 0, len(s))
	for _, p := range s {
		if p != path {
			out = append(out, p)
		}
	}
	return out
}

// Reconcile drops every path that no longer resolves exactly in root, so a
// stale path can never address a different node. A nil root clears the
// selection.
func Reconcile(sel Selection, root *tree.Node) Selection {
	out := make(Selection, 0, len(sel))
	for _, p := range sel {
		if c, ok := treepath.Canonical(root, p); ok && c == p && !out.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// RemapPrefix rewrites every path equal to or under oldPrefix so that it lies
// under newPrefix instead. Order is kept; duplicates produced by the rewrite
// are dropped.
func RemapPrefix(sel Selection, oldPrefix, newPrefix string) Selection {
	out := make(Selection, 0, len(sel))
	for _, p := range sel {
		p, _ = treepath.Rebase(p, oldPrefix, newPrefix)
		if !out.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}
