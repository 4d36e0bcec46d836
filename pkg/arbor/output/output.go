// Package output renders a tree view in several formats.
//
// Formatters are looked up by name in a registry:
//
//	f, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	return f.Format(os.Stdout, view)
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jamesainslie/arbor/pkg/arbor/layout"
	"github.com/jamesainslie/arbor/pkg/arbor/projection"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
)

// View is everything a formatter may draw.
type View struct {
	// Root is the canonical tree.
	Root      *tree.Node
	Selection state.Selection
	Collapsed state.Collapse
	Search    string
	// Layout sets the spacing of graphical formats.
	Layout layout.Options
}

// Rows returns the visible rows.
func (v *View) Rows() []projection.Row {
	return projection.Visible(v.Root, v.Collapsed)
}

// Highlight classifies the node at path.
func (v *View) Highlight(path, name string) state.Highlight {
	return state.HighlightOf(path, name, v.Selection, v.Search)
}

// Formatter writes a view.
type Formatter interface {
	Format(w io.Writer, v *View) error
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(w io.Writer, v *View) error

// Format calls f.
func (f FormatterFunc) Format(w io.Writer, v *View) error { return f(w, v) }

// Registry maps names to formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Register adds or replaces a formatter.
func (r *Registry) Register(name string, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[name] = f
}

// Get looks up a formatter.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %v)", name, r.names())
	}
	return f, nil
}

// Available lists the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default holds the built-in formatters.
var Default = NewRegistry()

func init() {
	Default.Register("json", FormatterFunc(formatJSON))
	Default.Register("yaml", FormatterFunc(formatYAML))
	Default.Register("plain", FormatterFunc(formatPlain))
	Default.Register("paths", FormatterFunc(formatPaths))
	Default.Register("pretty", FormatterFunc(formatPretty))
	Default.Register("svg", FormatterFunc(formatSVG))
}

// Get looks up a built-in formatter.
func Get(name string) (Formatter, error) {
	return Default.Get(name)
}

// Available lists the built-in formatter names.
func Available() []string {
	return Default.Available()
}

// errNoTree is returned by formats that need a tree.
var errNoTree = fmt.Errorf("no tree to render")
