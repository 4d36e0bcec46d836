// Package session owns the canonical tree and its persisted state.
//
// A Session turns surface gestures into edits. Every committed gesture ends
// with exactly one save of the whole snapshot; a gesture that fails leaves
// both the in-memory state and the store untouched and returns the error for
// the surface to display.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/jamesainslie/arbor/pkg/arbor/parse"
	"github.com/jamesainslie/arbor/pkg/arbor/projection"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

var (
	// ErrNoTree is returned by gestures that need a tree when none is loaded.
	ErrNoTree = errors.New("no tree loaded")

	// ErrUnknownMode rejects input modes other than json and path.
	ErrUnknownMode = errors.New("unknown input mode")
)

// Persister loads and saves snapshots. *store.Store implements it.
type Persister interface {
	LoadSnapshot() (store.Snapshot, error)
	SaveSnapshot(store.Snapshot) error
	Clear() error
}

// Recorder receives a record for every committed structural edit.
// *journal.Journal implements it.
type Recorder interface {
	Append(journal.Record) (journal.Record, error)
}

// Options configures Open.
type Options struct {
	// Journal records committed edits. Nil disables recording.
	Journal Recorder
	// StrictMove also rejects moving a node up to one of its ancestors.
	StrictMove bool
}

// Session is safe for concurrent use; gestures are serialized.
type Session struct {
	mu      sync.Mutex
	store   Persister
	journal Recorder
	strict  bool
	log     *logging.Logger

	root *tree.Node
	snap store.Snapshot
}

// Open loads the saved snapshot and rebuilds the tree from its JSON input.
// A saved input that no longer parses leaves the session without a tree.
func Open(p Persister, opts Options) (*Session, error) {
	snap, err := p.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	s := &Session{
		store:   p,
		journal: opts.Journal,
		strict:  opts.StrictMove,
		log:     logging.Get("session"),
		snap:    snap,
	}
	if strings.TrimSpace(snap.JSONInput) != "" {
		root, err := parse.JSON(snap.JSONInput)
		if err != nil {
			s.log.Warn("saved tree is unreadable", "error", err)
		} else {
			s.root = root
		}
	}
	s.snap.Selection = state.Reconcile(s.snap.Selection, s.root)
	s.log.Debug("session opened", "nodes", tree.Count(s.root), "selected", len(s.snap.Selection))
	return s, nil
}

// Tree returns the canonical tree, or nil.
func (s *Session) Tree() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Snapshot returns a copy of the persisted state.
func (s *Session) Snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

// View returns the collapse-aware projection of the tree.
func (s *Session) View() *tree.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Project(s.root, s.snap.Collapsed)
}

// Rows returns the visible rows of the projection.
func (s *Session) Rows() []projection.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projection.Visible(s.root, s.snap.Collapsed)
}

// Highlight classifies a node for display.
func (s *Session) Highlight(path, name string) state.Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.HighlightOf(path, name, s.snap.Selection, s.snap.Search)
}

// Inspection describes the primary selected node.
type Inspection struct {
	Name     string
	Path     string
	Children int
}

// Inspect describes the first selected node.
func (s *Session) Inspect() (Inspection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.snap.Selection.Primary()
	if !ok {
		return Inspection{}, false
	}
	n, ok := treepath.Resolve(s.root, p)
	if !ok {
		return Inspection{}, false
	}
	return Inspection{Name: n.Name, Path: p, Children: len(n.Children)}, true
}

// commit saves next and, only if that succeeds, installs root and next.
// A new root replaces the JSON input with its serialization; a nil root
// keeps whatever input next carries. Must be called with s.mu held.
func (s *Session) commit(root *tree.Node, next store.Snapshot) error {
	if root != nil && root != s.root {
		data, err := parse.Serialize(root)
		if err != nil {
			return err
		}
		next.JSONInput = string(data)
	}
	next.Selection = state.Reconcile(next.Selection, root)
	if err := s.store.SaveSnapshot(next); err != nil {
		s.log.Error("saving session failed", "error", err)
		return fmt.Errorf("saving session: %w", err)
	}
	s.root = root
	s.snap = next
	return nil
}

// record appends a journal record. Failures are logged, never returned.
func (s *Session) record(rec journal.Record, before, after *tree.Node) {
	if s.journal == nil {
		return
	}
	rec.NodesBefore = tree.Count(before)
	rec.NodesAfter = tree.Count(after)
	if _, err := s.journal.Append(rec); err != nil {
		s.log.Warn("journal write failed", "op", rec.Op, "error", err)
	}
}

// reject logs a refused gesture and passes the error through.
func (s *Session) reject(gesture string, err error, kv ...any) error {
	s.log.Warn(gesture+" rejected", append(kv, "error", err)...)
	return err
}

func copySnapshot(snap store.Snapshot) store.Snapshot {
	out := snap
	out.Selection = append(state.Selection{}, snap.Selection...)
	out.Collapsed = snap.Collapsed.Clone()
	return out
}
