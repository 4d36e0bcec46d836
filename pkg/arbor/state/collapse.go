package state

import (
	"maps"

	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// Collapse maps a path to true when that node's children are hidden.
// Absent keys mean expanded. Keys for nodes that no longer exist are inert
// and are never pruned.
type Collapse map[string]bool

// IsCollapsed reports whether path is marked collapsed.
func (c Collapse) IsCollapsed(path string) bool {
	return c[path]
}

// Clone returns a copy of c. A nil map clones to an empty one.
func (c Collapse) Clone() Collapse {
	out := make(Collapse, len(c))
	maps.Copy(out, c)
	return out
}

// ToggleCollapse flips the flag at path. The first toggle collapses.
func ToggleCollapse(c Collapse, path string) Collapse {
	out := c.Clone()
	out[path] = !c[path]
	return out
}

// Set returns a copy of c with every path set to collapsed.
func (c Collapse) Set(paths []string, collapsed bool) Collapse {
	out := c.Clone()
	for _, p := range paths {
		out[p] = collapsed
	}
	return out
}

// RemapPrefix moves the entries at or under oldPrefix to newPrefix. A moved
// entry overwrites an existing one at its new key.
func (c Collapse) RemapPrefix(oldPrefix, newPrefix string) Collapse {
	return c.RemapPrefixes(map[string]string{oldPrefix: newPrefix})
}

// RemapPrefixes applies several prefix moves in a single pass, so moves whose
// old and new prefixes overlap (as in a swap) do not chain. Each key is
// rewritten by at most one move.
func (c Collapse) RemapPrefixes(moves map[string]string) Collapse {
	out := make(Collapse, len(c))
	moved := make(Collapse)
	for p, v := range c {
		if np, ok := rebaseAny(p, moves); ok {
			moved[np] = v
			continue
		}
		out[p] = v
	}
	maps.Copy(out, moved)
	return out
}

// rebaseAny rewrites p with the move whose old prefix is the longest match.
func rebaseAny(p string, moves map[string]string) (string, bool) {
	best := ""
	found := false
	for oldPrefix := range moves {
		if treepath.IsSelfOrAncestor(oldPrefix, p) && (!found || len(oldPrefix) > len(best)) {
			best, found = oldPrefix, true
		}
	}
	if !found {
		return p, false
	}
	return treepath.Rebase(p, best, moves[best])
}
