// Package treepath addresses nodes by the slash-joined chain of names from
// the root down to the node, inclusive.
//
// Paths are derived from the live tree on every access. They are not stable
// identifiers: renaming or moving an ancestor changes every descendant's path.
// When siblings share a name, resolution takes the first match in child order.
package treepath

import (
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/tree"
)

// Separator joins path segments.
const Separator = "/"

// Split splits a path into its segments. Empty segments are kept.
func Split(p string) []string {
	return strings.Split(p, Separator)
}

// CleanSegment replaces invalid UTF-8 in a node name with U+FFFD, so the
// name survives serialization unchanged.
func CleanSegment(name string) string {
	return strings.ToValidUTF8(name, "\uFFFD")
}

// Join joins segments into a path.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Child returns the path of a child named name under parent.
func Child(parent, name string) string {
	return parent + Separator + name
}

// Of returns the path of target, which must be the identical node (pointer)
// somewhere in root.
func Of(root, target *tree.Node) (string, bool) {
	var found string
	ok := false
	tree.Walk(root, func(n *tree.Node, ancestors []*tree.Node) bool {
		if ok {
			return false
		}
		if n == target {
			found = FromAncestors(ancestors, n)
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// FromAncestors returns the path of n given the chain of its ancestors, root
// first, as passed to a tree.Walk visitor.
func FromAncestors(ancestors []*tree.Node, n *tree.Node) string {
	segments := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		segments = append(segments, a.Name)
	}
	segments = append(segments, n.Name)
	return Join(segments...)
}

// Resolve returns the node addressed by path.
// An empty path, or one whose first segment is empty, resolves to the root.
func Resolve(root *tree.Node, path string) (*tree.Node, bool) {
	idx, ok := Locate(root, path)
	if !ok {
		return nil, false
	}
	return tree.At(root, idx), true
}

// Locate returns the chain of child indices leading from root to the node
// addressed by path. The root itself has an empty chain.
func Locate(root *tree.Node, path string) ([]int, bool) {
	if root == nil {
		return nil, false
	}
	segments := Split(path)
	if segments[0] == "" {
		return []int{}, true
	}
	if segments[0] != root.Name {
		return nil, false
	}

	idx := make([]int, 0, len(segments)-1)
	n := root
	for _, seg := range segments[1:] {
		i, child := n.Child(seg)
		if child == nil {
			return nil, false
		}
		idx = append(idx, i)
		n = child
	}
	return idx, true
}

// Canonical returns the exact path of the node that path resolves to. It
// differs from path when path relies on the empty-first-segment convention.
func Canonical(root *tree.Node, path string) (string, bool) {
	idx, ok := Locate(root, path)
	if !ok {
		return "", false
	}
	return FromIndex(root, idx), true
}

// FromIndex returns the path of the node reached by a chain of child indices.
// The chain must be valid for root.
func FromIndex(root *tree.Node, idx []int) string {
	segments := make([]string, 0, len(idx)+1)
	n := root
	segments = append(segments, n.Name)
	for _, i := range idx {
		n = n.Children[i]
		segments = append(segments, n.Name)
	}
	return Join(segments...)
}

// IsAncestor reports whether a is a proper ancestor of b: b has more segments
// and starts with every segment of a.
func IsAncestor(a, b string) bool {
	as, bs := Split(a), Split(b)
	if len(bs) <= len(as) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// IsSelfOrAncestor reports whether a == b or a is an ancestor of b.
func IsSelfOrAncestor(a, b string) bool {
	return a == b || IsAncestor(a, b)
}

// Parent returns the path without its last segment.
// A single-segment path has no parent.
func Parent(p string) (string, bool) {
	i := strings.LastIndex(p, Separator)
	if i < 0 {
		return "", false
	}
	return p[:i], true
}

// Base returns the last segment of a path.
func Base(p string) string {
	return p[strings.LastIndex(p, Separator)+1:]
}

// Depth returns the number of segments in a path.
func Depth(p string) int {
	return len(Split(p))
}

// Rebase rewrites p when it is oldPrefix or lies under it, replacing that
// prefix with newPrefix.
func Rebase(p, oldPrefix, newPrefix string) (string, bool) {
	if p == oldPrefix {
		return newPrefix, true
	}
	if IsAncestor(oldPrefix, p) {
		return newPrefix + p[len(oldPrefix):], true
	}
	return p, false
}

// Siblings returns the other children of the node's parent, in order.
// The root has no siblings.
func Siblings(root *tree.Node, path string) []*tree.Node {
	idx, ok := Locate(root, path)
	if !ok || len(idx) == 0 {
		return nil
	}
	parent := tree.At(root, idx[:len(idx)-1])
	self := idx[len(idx)-1]

	siblings := make([]*tree.Node, 0, len(parent.Children)-1)
	for i, c := range parent.Children {
		if i != self {
			siblings = append(siblings, c)
		}
	}
	return siblings
}

// All returns every node path in pre-order.
func All(root *tree.Node) []string {
	var paths []string
	tree.Walk(root, func(n *tree.Node, ancestors []*tree.Node) bool {
		paths = append(paths, FromAncestors(ancestors, n))
		return true
	})
	return paths
}
