// Package tree provides the canonical folder node type and pure structural
// helpers over immutable trees.
//
// A tree reachable from a canonical root is never mutated. Every helper that
// "changes" a tree returns a new root that shares the untouched subtrees with
// the old one.
package tree

import (
	"github.com/goccy/go-json"
)

// Node is a named folder with ordered children.
//
// A nil Children slice means the node has no children sequence at all; an
// empty non-nil slice means it has one that happens to be empty. Both are
// leaves. The distinction only survives serialization.
type Node struct {
	Name     string
	Children []*Node
}

// wireNode is the JSON shape of a Node. A nil pointer omits the key, a
// pointer to an empty slice emits "children": [].
type wireNode struct {
	Name     string   `json:"name"`
	Children *[]*Node `json:"children,omitempty"`
}

// MarshalJSON keeps absent and empty children distinct.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := wireNode{Name: n.Name}
	if n.Children != nil {
		children := n.Children
		w.Children = &children
	}
	return json.Marshal(w)
}

// New returns a node with the given children. Calling New with no children
// yields an empty, non-nil children slice.
func New(name string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Name: name, Children: children}
}

// Leaf returns a node without a children sequence.
func Leaf(name string) *Node {
	return &Node{Name: name}
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

// Child returns the first child with the given name and its index.
// The index is -1 when no child matches.
func (n *Node) Child(name string) (int, *Node) {
	if n == nil {
		return -1, nil
	}
	for i, c := range n.Children {
		if c.Name == name {
			return i, c
		}
	}
	return -1, nil
}

// WithName returns a shallow copy carrying a new name. Children are shared.
func (n *Node) WithName(name string) *Node {
	return &Node{Name: name, Children: n.Children}
}

// WithChildren returns a shallow copy carrying a new children slice.
func (n *Node) WithChildren(children []*Node) *Node {
	return &Node{Name: n.Name, Children: children}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}
