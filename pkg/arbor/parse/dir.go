package parse

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// DirOptions configures directory import.
type DirOptions struct {
	// IncludeFiles adds regular files as leaves. By default only folders are
	// imported.
	IncludeFiles bool

	// Exclude holds glob patterns matched against each entry's base name and
	// its path relative to the root. Matching folders are not descended.
	Exclude []string

	// MaxDepth limits how deep below the root entries are imported.
	// Zero means unlimited.
	MaxDepth int
}

// Dir imports the folder hierarchy rooted at root. The root node is named
// after the directory's base name and children are sorted by name.
func Dir(ctx context.Context, root string, opts DirOptions) (*tree.Node, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	w := &dirWalker{
		root:    absRoot,
		opts:    opts,
		entries: make(map[string]bool),
		done:    ctx.Done(),
	}

	conf := fastwalk.Config{
		Follow: false,
	}
	err = fastwalk.Walk(&conf, absRoot, w.visit)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil && !errors.Is(err, fastwalk.ErrSkipFiles) {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	logging.Get("parse").Debug("directory imported", "root", absRoot, "entries", len(w.entries))
	return w.build(), nil
}

// dirWalker collects entries from concurrent fastwalk callbacks.
type dirWalker struct {
	root string
	opts DirOptions
	done <-chan struct{}

	mu      sync.Mutex
	entries map[string]bool // relative slash path -> is directory
}

func (w *dirWalker) visit(path string, d fs.DirEntry, err error) error {
	select {
	case <-w.done:
		return fastwalk.ErrSkipFiles
	default:
	}

	if err != nil {
		// Unreadable entries are skipped rather than failing the import.
		logging.Get("parse").Debug("skipping entry", "path", path, "error", err)
		return nil
	}
	if path == w.root {
		return nil
	}

	rel, relErr := filepath.Rel(w.root, path)
	if relErr != nil {
		return nil //nolint:nilerr // outside the root, ignore
	}
	rel = filepath.ToSlash(rel)

	isDir := d.IsDir()
	if w.excluded(rel, d.Name()) {
		if isDir {
			return filepath.SkipDir
		}
		return nil
	}

	depth := strings.Count(rel, "/") + 1
	if w.opts.MaxDepth > 0 && depth > w.opts.MaxDepth {
		if isDir {
			return filepath.SkipDir
		}
		return nil
	}

	if !isDir && (!w.opts.IncludeFiles || !d.Type().IsRegular()) {
		return nil
	}

	w.mu.Lock()
	w.entries[rel] = isDir
	w.mu.Unlock()
	return nil
}

func (w *dirWalker) excluded(rel, name string) bool {
	for _, pattern := range w.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// build assembles the collected entries into a sorted tree. Folders get an
// empty children slice, files none.
func (w *dirWalker) build() *tree.Node {
	rels := make([]string, 0, len(w.entries))
	for rel := range w.entries {
		rels = append(rels, rel)
	}
	// Parents sort before their children.
	sort.Strings(rels)

	type building struct {
		name     string
		isDir    bool
		children []*building
	}
	rootB := &building{name: treepath.CleanSegment(filepath.Base(w.root)), isDir: true}
	nodes := map[string]*building{"": rootB}

	for _, rel := range rels {
		parentRel := ""
		if i := strings.LastIndex(rel, "/"); i >= 0 {
			parentRel = rel[:i]
		}
		parent, ok := nodes[parentRel]
		if !ok {
			continue
		}
		b := &building{name: treepath.CleanSegment(rel[strings.LastIndex(rel, "/")+1:]), isDir: w.entries[rel]}
		parent.children = append(parent.children, b)
		nodes[rel] = b
	}

	var convert func(b *building) *tree.Node
	convert = func(b *building) *tree.Node {
		if !b.isDir {
			return tree.Leaf(b.name)
		}
		sort.Slice(b.children, func(i, j int) bool {
			return b.children[i].name < b.children[j].name
		})
		children := make([]*tree.Node, 0, len(b.children))
		for _, c := range b.children {
			children = append(children, convert(c))
		}
		return tree.New(b.name, children...)
	}
	return convert(rootB)
}
