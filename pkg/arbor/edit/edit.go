// Package edit implements structural edits over immutable trees.
//
// Every operation takes a root and returns a new root that shares untouched
// subtrees with the input. A failing operation returns the input root
// unchanged together with an error wrapping one of the package's sentinels.
// Nodes are addressed by path and located by index chain, so a duplicate
// sibling name can never redirect a write to a different node.
package edit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// RemoveByPath detaches the subtree at path from its parent. When path does
// not resolve, or names the root itself, removed is nil and root is returned
// unchanged.
func RemoveByPath(root *tree.Node, path string) (removed, newRoot *tree.Node) {
	idx, ok := treepath.Locate(root, path)
	if !ok || len(idx) == 0 {
		return nil, root
	}
	removed = tree.At(root, idx)
	return removed, tree.ReplaceAt(root, idx, func(*tree.Node) *tree.Node { return nil })
}

// InsertAtPath appends subtree as the last child of the node at path.
// The root is returned unchanged when path does not resolve.
func InsertAtPath(root *tree.Node, path string, subtree *tree.Node) *tree.Node {
	idx, ok := treepath.Locate(root, path)
	if !ok {
		return root
	}
	return tree.ReplaceAt(root, idx, func(n *tree.Node) *tree.Node {
		return tree.AppendChild(n, subtree)
	})
}

// Move reparents the subtree at source under target, as its last child.
//
// Moving a node onto itself or under one of its descendants fails with
// ErrInvalidMove. Moving a node up to one of its ancestors is allowed.
func Move(root *tree.Node, source, target string) (*tree.Node, error) {
	return move(root, source, target, false)
}

// MoveStrict is Move but also rejects a target that is an ancestor of source.
func MoveStrict(root *tree.Node, source, target string) (*tree.Node, error) {
	return move(root, source, target, true)
}

func move(root *tree.Node, source, target string, strict bool) (*tree.Node, error) {
	if source == target {
		return root, fmt.Errorf("%w: %q onto itself", ErrInvalidMove, source)
	}
	if treepath.IsAncestor(source, target) {
		return root, fmt.Errorf("%w: %q into its own descendant %q", ErrInvalidMove, source, target)
	}
	if strict && treepath.IsAncestor(target, source) {
		return root, fmt.Errorf("%w: %q is already under %q", ErrInvalidMove, source, target)
	}

	srcIdx, ok := treepath.Locate(root, source)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrSourceNotFound, source)
	}
	tgtIdx, ok := treepath.Locate(root, target)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrTargetNotFound, target)
	}

	// Paths can alias the root through an empty first segment, so the
	// ancestry checks are repeated on the resolved positions.
	if hasPrefix(tgtIdx, srcIdx) {
		return root, fmt.Errorf("%w: %q into its own subtree", ErrInvalidMove, source)
	}
	if strict && hasPrefix(srcIdx, tgtIdx) {
		return root, fmt.Errorf("%w: %q is already under %q", ErrInvalidMove, source, target)
	}

	moving := tree.At(root, srcIdx)
	dest := tree.At(root, tgtIdx)
	for _, c := range dest.Children {
		if c.Name == moving.Name && c != moving {
			return root, fmt.Errorf("%w: %q already has a child named %q", ErrDuplicateSibling, target, moving.Name)
		}
	}

	detached := tree.ReplaceAt(root, srcIdx, func(*tree.Node) *tree.Node { return nil })
	return tree.ReplaceAt(detached, afterRemoval(tgtIdx, srcIdx), func(n *tree.Node) *tree.Node {
		return tree.AppendChild(n, moving)
	}), nil
}

// SwapNodes exchanges the positions of the subtrees at a and b: a takes b's
// slot under b's parent and b takes a's.
func SwapNodes(root *tree.Node, a, b string) (*tree.Node, error) {
	if a == b {
		return root, fmt.Errorf("%w: cannot swap %q with itself", ErrInvalidMove, a)
	}
	aIdx, ok := treepath.Locate(root, a)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrNotFound, a)
	}
	bIdx, ok := treepath.Locate(root, b)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrNotFound, b)
	}
	if hasPrefix(bIdx, aIdx) || hasPrefix(aIdx, bIdx) {
		return root, fmt.Errorf("%w: %q and %q are nested", ErrInvalidMove, a, b)
	}

	aNode, bNode := tree.At(root, aIdx), tree.At(root, bIdx)
	aParent := tree.At(root, aIdx[:len(aIdx)-1])
	bParent := tree.At(root, bIdx[:len(bIdx)-1])
	if clashes(bParent, aNode.Name, aNode, bNode) {
		return root, fmt.Errorf("%w: %q under %q", ErrDuplicateSibling, aNode.Name, treepath.FromIndex(root, bIdx[:len(bIdx)-1]))
	}
	if clashes(aParent, bNode.Name, aNode, bNode) {
		return root, fmt.Errorf("%w: %q under %q", ErrDuplicateSibling, bNode.Name, treepath.FromIndex(root, aIdx[:len(aIdx)-1]))
	}

	// Neither node contains the other, so replacing one leaves the other's
	// index chain valid.
	swapped := tree.ReplaceAt(root, aIdx, func(*tree.Node) *tree.Node { return bNode })
	return tree.ReplaceAt(swapped, bIdx, func(*tree.Node) *tree.Node { return aNode }), nil
}

// clashes reports whether parent has a child named name other than the nodes
// taking part in the swap.
func clashes(parent *tree.Node, name string, a, b *tree.Node) bool {
	for _, c := range parent.Children {
		if c.Name == name && c != a && c != b {
			return true
		}
	}
	return false
}

// BatchDelete removes the subtree at every path. Paths are processed deepest
// first so that removing an ancestor never strands a selected descendant.
// Paths that do not resolve are skipped.
func BatchDelete(root *tree.Node, paths []string) *tree.Node {
	for _, p := range byDepthDesc(paths) {
		_, root = RemoveByPath(root, p)
	}
	return root
}

// BatchMoveInto reparents every selected subtree under target, appending them
// in selection order. Paths already carried by a selected ancestor are
// dropped first. Selected paths that do not resolve are skipped.
func BatchMoveInto(root *tree.Node, paths []string, target string) (*tree.Node, error) {
	tgtIdx, ok := treepath.Locate(root, target)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrTargetNotFound, target)
	}
	targetPath := treepath.FromIndex(root, tgtIdx)
	dest := tree.At(root, tgtIdx)

	top := TopLevel(paths)
	moving := make(map[string]*tree.Node, len(top))
	names := make(map[string]string, len(top))
	var order []string
	for _, p := range top {
		idx, ok := treepath.Locate(root, p)
		if !ok {
			continue
		}
		canonical := treepath.FromIndex(root, idx)
		if _, seen := moving[canonical]; seen {
			continue
		}
		if hasPrefix(tgtIdx, idx) {
			return root, fmt.Errorf("%w: %q is inside the moved subtree %q", ErrInvalidMove, targetPath, canonical)
		}
		n := tree.At(root, idx)
		if other, dup := names[n.Name]; dup {
			return root, fmt.Errorf("%w: %q and %q are both named %q", ErrDuplicateSibling, other, canonical, n.Name)
		}
		names[n.Name] = canonical
		moving[canonical] = n
		order = append(order, canonical)
	}
	if len(order) == 0 {
		return root, nil
	}

	for _, c := range dest.Children {
		if _, dup := names[c.Name]; dup && !isMoving(moving, c) {
			return root, fmt.Errorf("%w: %q already has a child named %q", ErrDuplicateSibling, targetPath, c.Name)
		}
	}

	next := root
	for _, p := range byDepthDesc(order) {
		_, next = RemoveByPath(next, p)
	}

	subtrees := make([]*tree.Node, 0, len(order))
	for _, p := range order {
		subtrees = append(subtrees, moving[p])
	}
	idx, ok := treepath.Locate(next, targetPath)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrTargetNotFound, target)
	}
	return tree.ReplaceAt(next, idx, func(n *tree.Node) *tree.Node {
		children := make([]*tree.Node, 0, len(n.Children)+len(subtrees))
		children = append(children, n.Children...)
		children = append(children, subtrees...)
		return n.WithChildren(children)
	}), nil
}

func isMoving(moving map[string]*tree.Node, n *tree.Node) bool {
	for _, m := range moving {
		if m == n {
			return true
		}
	}
	return false
}

// TopLevel filters paths down to those not under another path in the list.
// Order is kept and duplicates are dropped.
func TopLevel(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		covered := false
		for _, q := range paths {
			if treepath.IsAncestor(q, p) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, p)
			seen[p] = true
		}
	}
	return out
}

// Rename replaces the name of the node at path. The new name is trimmed and
// must be non-empty, free of the separator and unique among its siblings.
func Rename(root *tree.Node, path, newName string) (*tree.Node, error) {
	name := treepath.CleanSegment(strings.TrimSpace(newName))
	if name == "" {
		return root, ErrEmptyName
	}
	if strings.Contains(name, treepath.Separator) {
		return root, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	idx, ok := treepath.Locate(root, path)
	if !ok {
		return root, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	if len(idx) > 0 {
		parent := tree.At(root, idx[:len(idx)-1])
		self := idx[len(idx)-1]
		for i, c := range parent.Children {
			if i != self && c.Name == name {
				return root, fmt.Errorf("%w: %q", ErrDuplicateSibling, name)
			}
		}
	}
	return tree.ReplaceAt(root, idx, func(n *tree.Node) *tree.Node {
		return n.WithName(name)
	}), nil
}

// RenamedPath returns the path a node at path has after being renamed.
func RenamedPath(path, newName string) string {
	name := treepath.CleanSegment(strings.TrimSpace(newName))
	if parent, ok := treepath.Parent(path); ok {
		return treepath.Child(parent, name)
	}
	return name
}

// ExpandCollapseSelection marks every selected path expanded or collapsed.
// Unselected entries are left as they are.
func ExpandCollapseSelection(collapsed state.Collapse, paths []string, expand bool) state.Collapse {
	return collapsed.Set(paths, !expand)
}

// byDepthDesc returns a copy of paths ordered deepest first, keeping input
// order among equal depths.
func byDepthDesc(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.SliceStable(out, func(i, j int) bool {
		return treepath.Depth(out[i]) > treepath.Depth(out[j])
	})
	return out
}

// hasPrefix reports whether idx starts with prefix.
func hasPrefix(idx, prefix []int) bool {
	if len(prefix) > len(idx) {
		return false
	}
	for i := range prefix {
		if idx[i] != prefix[i] {
			return false
		}
	}
	return true
}

// afterRemoval adjusts the index chain idx for the removal of the node at
// removed. idx must not lie inside the removed subtree.
func afterRemoval(idx, removed []int) []int {
	d := len(removed) - 1
	if d >= len(idx) || !hasPrefix(idx[:d], removed[:d]) || idx[d] < removed[d] {
		return idx
	}
	out := append([]int(nil), idx...)
	out[d]--
	return out
}
