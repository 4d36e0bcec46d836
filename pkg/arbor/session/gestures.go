package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/edit"
	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/jamesainslie/arbor/pkg/arbor/parse"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// NodeClicked selects path. A modified click toggles it within the
// selection instead of replacing the selection.
func (s *Session) NodeClicked(path string, modified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}
	if c, ok := treepath.Canonical(s.root, path); !ok || c != path {
		return s.reject("click", fmt.Errorf("%w: %q", edit.ErrNotFound, path))
	}
	next := copySnapshot(s.snap)
	next.Selection = state.ClickSelect(next.Selection, path, modified)
	return s.commit(s.root, next)
}

// NodeToggled flips the collapse flag of path.
func (s *Session) NodeToggled(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}
	next := copySnapshot(s.snap)
	next.Collapsed = state.ToggleCollapse(next.Collapsed, path)
	return s.commit(s.root, next)
}

// NodeDragDropped moves the subtree at src under dst.
func (s *Session) NodeDragDropped(src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}

	move := edit.Move
	if s.strict {
		move = edit.MoveStrict
	}
	root, err := move(s.root, src, dst)
	if err != nil {
		return s.reject("move", err, "source", src, "target", dst)
	}

	moving, _ := treepath.Resolve(s.root, src)
	oldPath, _ := treepath.Of(s.root, moving)
	newPath, _ := treepath.Of(root, moving)

	before := s.root
	next := copySnapshot(s.snap)
	next.Selection = state.Selection{}
	next.Collapsed = next.Collapsed.RemapPrefix(oldPath, newPath)
	if err := s.commit(root, next); err != nil {
		return err
	}
	s.record(journal.Record{Op: journal.OpMove, Paths: []string{oldPath}, Target: newPath}, before, root)
	return nil
}

// NodesSwapped exchanges the positions of two subtrees.
func (s *Session) NodesSwapped(a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}
	root, err := edit.SwapNodes(s.root, a, b)
	if err != nil {
		return s.reject("swap", err, "a", a, "b", b)
	}

	aNode, _ := treepath.Resolve(s.root, a)
	bNode, _ := treepath.Resolve(s.root, b)
	aOld, _ := treepath.Of(s.root, aNode)
	bOld, _ := treepath.Of(s.root, bNode)
	aNew, _ := treepath.Of(root, aNode)
	bNew, _ := treepath.Of(root, bNode)

	before := s.root
	next := copySnapshot(s.snap)
	next.Selection = state.Selection{}
	next.Collapsed = next.Collapsed.RemapPrefixes(map[string]string{aOld: aNew, bOld: bNew})
	if err := s.commit(root, next); err != nil {
		return err
	}
	s.record(journal.Record{Op: journal.OpSwap, Paths: []string{aOld, bOld}}, before, root)
	return nil
}

// RenameSubmitted renames the node at path and rewrites the selection and
// collapse entries under it.
func (s *Session) RenameSubmitted(path, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}
	root, err := edit.Rename(s.root, path, name)
	if err != nil {
		return s.reject("rename", err, "path", path, "name", name)
	}

	oldPath, _ := treepath.Canonical(s.root, path)
	newPath := edit.RenamedPath(oldPath, name)

	before := s.root
	next := copySnapshot(s.snap)
	next.Selection = state.RemapPrefix(next.Selection, oldPath, newPath)
	next.Collapsed = next.Collapsed.RemapPrefix(oldPath, newPath)
	if err := s.commit(root, next); err != nil {
		return err
	}
	s.record(journal.Record{Op: journal.OpRename, Paths: []string{oldPath}, Target: newPath}, before, root)
	return nil
}

// SearchChanged stores the query and selects its first match, if any.
func (s *Session) SearchChanged(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := copySnapshot(s.snap)
	next.Search = query
	next.Selection = state.SearchSelect(next.Selection, s.root, query)
	return s.commit(s.root, next)
}

// BatchDeleteRequested deletes every selected subtree.
func (s *Session) BatchDeleteRequested() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}
	if len(s.snap.Selection) == 0 {
		return nil
	}
	paths := append([]string(nil), s.snap.Selection...)
	root := edit.BatchDelete(s.root, paths)

	before := s.root
	next := copySnapshot(s.snap)
	next.Selection = state.Selection{}
	if err := s.commit(root, next); err != nil {
		return err
	}
	s.record(journal.Record{Op: journal.OpDelete, Paths: paths}, before, root)
	return nil
}

// BatchMoveRequested moves every selected subtree under the path typed in
// target. Blank input cancels without error.
func (s *Session) BatchMoveRequested(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return ErrNoTree
	}
	if len(s.snap.Selection) == 0 {
		return nil
	}

	paths := append([]string(nil), s.snap.Selection...)
	root, err := edit.BatchMoveInto(s.root, paths, target)
	if err != nil {
		return s.reject("batch move", err, "target", target, "selected", len(paths))
	}

	moves := make(map[string]string)
	for _, p := range edit.TopLevel(paths) {
		n, ok := treepath.Resolve(s.root, p)
		if !ok {
			continue
		}
		oldPath, _ := treepath.Of(s.root, n)
		if newPath, ok := treepath.Of(root, n); ok {
			moves[oldPath] = newPath
		}
	}

	before := s.root
	next := copySnapshot(s.snap)
	next.Selection = state.Selection{}
	next.Collapsed = next.Collapsed.RemapPrefixes(moves)
	if err := s.commit(root, next); err != nil {
		return err
	}
	s.record(journal.Record{Op: journal.OpMoveInto, Paths: paths, Target: target}, before, root)
	return nil
}

// BatchExpandCollapseRequested expands or collapses every selected node.
func (s *Session) BatchExpandCollapseRequested(expand bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := copySnapshot(s.snap)
	next.Collapsed = edit.ExpandCollapseSelection(next.Collapsed, next.Selection, expand)
	return s.commit(s.root, next)
}

// TreeImportSubmitted replaces the tree with one parsed from text.
//
// The selection is reset and collapse state is kept. Malformed JSON clears
// the tree, keeps the raw text for the user to fix and returns an error
// matching parse.ErrMalformedInput.
func (s *Session) TreeImportSubmitted(mode, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.root
	next := copySnapshot(s.snap)
	next.Selection = state.Selection{}

	var root *tree.Node
	switch mode {
	case store.InputJSON:
		next.InputType = store.InputJSON
		parsed, err := parse.JSON(text)
		if err != nil {
			s.log.Warn("import rejected", "mode", mode, "error", err)
			next.JSONInput = text
			if saveErr := s.commit(nil, next); saveErr != nil {
				return errors.Join(err, saveErr)
			}
			return err
		}
		root = parsed
	case store.InputPath:
		next.InputType = store.InputPath
		next.PathInput = text
		root = parse.PathString(text)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if err := s.commit(root, next); err != nil {
		return err
	}
	s.record(journal.Record{Op: journal.OpImport, Detail: mode}, before, root)
	s.log.Info("tree imported", "mode", mode, "nodes", tree.Count(root))
	return nil
}

// InputModeChanged stores the preferred input mode.
func (s *Session) InputModeChanged(mode string) error {
	if mode != store.InputJSON && mode != store.InputPath {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := copySnapshot(s.snap)
	next.InputType = mode
	return s.commit(s.root, next)
}

// Reset forgets the tree and every persisted value.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	s.root = nil
	s.snap = store.Snapshot{
		InputType: store.InputJSON,
		Selection: state.Selection{},
		Collapsed: state.Collapse{},
	}
	s.log.Info("session reset")
	return nil
}
