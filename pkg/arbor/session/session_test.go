package session_test

import (
	"errors"
	"testing"

	"github.com/jamesainslie/arbor/pkg/arbor/edit"
	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/jamesainslie/arbor/pkg/arbor/parse"
	"github.com/jamesainslie/arbor/pkg/arbor/session"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"name":"root","children":[
  {"name":"src","children":[{"name":"components","children":[]},{"name":"utils","children":[{"name":"strings"}]}]},
  {"name":"docs","children":[]},
  {"name":"test"}
]}`

type recorder struct {
	records []journal.Record
}

func (r *recorder) Append(rec journal.Record) (journal.Record, error) {
	r.records = append(r.records, rec)
	return rec, nil
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newSession(t *testing.T) (*session.Session, *store.Store, *recorder) {
	t.Helper()
	st := openStore(t)
	rec := &recorder{}
	s, err := session.Open(st, session.Options{Journal: rec})
	require.NoError(t, err)
	require.NoError(t, s.TreeImportSubmitted(store.InputJSON, sampleJSON))
	rec.records = nil
	return s, st, rec
}

func saved(t *testing.T, st *store.Store) store.Snapshot {
	t.Helper()
	snap, err := st.LoadSnapshot()
	require.NoError(t, err)
	return snap
}

func TestOpen(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		s, err := session.Open(openStore(t), session.Options{})
		require.NoError(t, err)
		assert.Nil(t, s.Tree())
		assert.Equal(t, store.InputJSON, s.Snapshot().InputType)
		assert.ErrorIs(t, s.NodeClicked("root", false), session.ErrNoTree)
	})

	t.Run("restores tree and state", func(t *testing.T) {
		st := openStore(t)
		require.NoError(t, st.SaveSnapshot(store.Snapshot{
			InputType: store.InputJSON,
			JSONInput: sampleJSON,
			Selection: state.Selection{"root/docs", "root/gone"},
			Collapsed: state.Collapse{"root/src": true},
		}))

		s, err := session.Open(st, session.Options{})
		require.NoError(t, err)
		require.NotNil(t, s.Tree())
		assert.Equal(t, state.Selection{"root/docs"}, s.Snapshot().Selection)
		assert.Nil(t, s.View().Children[0].Children)
	})

	t.Run("unreadable saved tree", func(t *testing.T) {
		st := openStore(t)
		require.NoError(t, st.Put(store.KeyJSONInput, "{broken"))
		s, err := session.Open(st, session.Options{})
		require.NoError(t, err)
		assert.Nil(t, s.Tree())
	})
}

func TestImport(t *testing.T) {
	t.Run("path string", func(t *testing.T) {
		s, st, rec := newSession(t)
		require.NoError(t, s.NodeClicked("root/docs", false))
		require.NoError(t, s.NodeToggled("root/src"))

		require.NoError(t, s.TreeImportSubmitted(store.InputPath, "root/src/components"))
		want := tree.New("root", tree.New("src", tree.New("components")))
		assert.True(t, tree.StrictEqual(want, s.Tree()))

		snap := saved(t, st)
		assert.Equal(t, store.InputPath, snap.InputType)
		assert.Equal(t, "root/src/components", snap.PathInput)
		assert.Empty(t, snap.Selection, "import resets the selection")
		assert.True(t, snap.Collapsed["root/src"], "import keeps collapse state")
		data, _ := parse.Serialize(want)
		assert.Equal(t, string(data), snap.JSONInput)
		require.Len(t, rec.records, 1)
		assert.Equal(t, journal.OpImport, rec.records[0].Op)
	})

	t.Run("malformed JSON clears the tree", func(t *testing.T) {
		s, st, rec := newSession(t)
		err := s.TreeImportSubmitted(store.InputJSON, `{"children":[]}`)
		require.ErrorIs(t, err, parse.ErrMalformedInput)
		assert.Nil(t, s.Tree())
		assert.Equal(t, `{"children":[]}`, saved(t, st).JSONInput)
		assert.Empty(t, rec.records)
	})

	t.Run("unknown mode", func(t *testing.T) {
		s, _, _ := newSession(t)
		assert.ErrorIs(t, s.TreeImportSubmitted("xml", "<a/>"), session.ErrUnknownMode)
		assert.NotNil(t, s.Tree())
	})
}

func TestClickAndToggle(t *testing.T) {
	s, st, _ := newSession(t)

	require.NoError(t, s.NodeClicked("root/src", false))
	require.NoError(t, s.NodeClicked("root/docs", true))
	assert.Equal(t, state.Selection{"root/src", "root/docs"}, saved(t, st).Selection)

	info, ok := s.Inspect()
	require.True(t, ok)
	assert.Equal(t, session.Inspection{Name: "src", Path: "root/src", Children: 2}, info)

	require.NoError(t, s.NodeClicked("root/src", true))
	assert.Equal(t, state.Selection{"root/docs"}, s.Snapshot().Selection)

	assert.ErrorIs(t, s.NodeClicked("root/nope", false), edit.ErrNotFound)
	assert.Equal(t, state.Selection{"root/docs"}, s.Snapshot().Selection)

	require.NoError(t, s.NodeToggled("root/src"))
	assert.True(t, saved(t, st).Collapsed["root/src"])
	assert.Len(t, s.Rows(), 4)
	assert.Equal(t, state.HighlightSelected, s.Highlight("root/docs", "docs"))
}

func TestDragDrop(t *testing.T) {
	t.Run("moves and remaps collapse", func(t *testing.T) {
		s, st, rec := newSession(t)
		require.NoError(t, s.NodeToggled("root/src/utils"))
		require.NoError(t, s.NodeClicked("root/src/utils", false))

		require.NoError(t, s.NodeDragDropped("root/src/utils", "root/docs"))
		_, ok := treepath.Resolve(s.Tree(), "root/docs/utils/strings")
		assert.True(t, ok)

		snap := saved(t, st)
		assert.Empty(t, snap.Selection)
		assert.True(t, snap.Collapsed["root/docs/utils"])
		assert.NotContains(t, snap.Collapsed, "root/src/utils")

		require.Len(t, rec.records, 1)
		assert.Equal(t, journal.OpMove, rec.records[0].Op)
		assert.Equal(t, "root/docs/utils", rec.records[0].Target)
		assert.Equal(t, 7, rec.records[0].NodesBefore)
		assert.Equal(t, 7, rec.records[0].NodesAfter)
	})

	t.Run("invalid move leaves state alone", func(t *testing.T) {
		s, st, rec := newSession(t)
		require.NoError(t, s.NodeClicked("root/src", false))
		before := s.Tree()

		err := s.NodeDragDropped("root/src", "root/src/utils")
		require.ErrorIs(t, err, edit.ErrInvalidMove)
		assert.Same(t, before, s.Tree())
		assert.Equal(t, state.Selection{"root/src"}, saved(t, st).Selection)
		assert.Empty(t, rec.records)
	})

	t.Run("strict rejects moving up", func(t *testing.T) {
		st := openStore(t)
		s, err := session.Open(st, session.Options{StrictMove: true})
		require.NoError(t, err)
		require.NoError(t, s.TreeImportSubmitted(store.InputJSON, sampleJSON))
		assert.ErrorIs(t, s.NodeDragDropped("root/src/utils", "root"), edit.ErrInvalidMove)
	})
}

func TestSwap(t *testing.T) {
	s, st, rec := newSession(t)
	require.NoError(t, s.NodeToggled("root/src/utils"))

	require.NoError(t, s.NodesSwapped("root/src/utils", "root/docs"))
	_, ok := treepath.Resolve(s.Tree(), "root/utils/strings")
	assert.True(t, ok)
	_, ok = treepath.Resolve(s.Tree(), "root/src/docs")
	assert.True(t, ok)
	assert.True(t, saved(t, st).Collapsed["root/utils"])
	require.Len(t, rec.records, 1)
	assert.Equal(t, journal.OpSwap, rec.records[0].Op)
}

func TestRename(t *testing.T) {
	s, st, rec := newSession(t)
	require.NoError(t, s.NodeClicked("root/src/utils/strings", false))
	require.NoError(t, s.NodeToggled("root/src"))

	require.NoError(t, s.RenameSubmitted("root/src", " lib "))
	snap := saved(t, st)
	assert.Equal(t, state.Selection{"root/lib/utils/strings"}, snap.Selection)
	assert.True(t, snap.Collapsed["root/lib"])
	require.Len(t, rec.records, 1)

	err := s.RenameSubmitted("root/lib", "docs")
	require.ErrorIs(t, err, edit.ErrDuplicateSibling)
	err = s.RenameSubmitted("root/lib", "  ")
	require.ErrorIs(t, err, edit.ErrEmptyName)
	assert.Len(t, rec.records, 1)
}

func TestSearch(t *testing.T) {
	s, st, _ := newSession(t)
	require.NoError(t, s.NodeClicked("root/docs", false))

	require.NoError(t, s.SearchChanged("comp"))
	snap := saved(t, st)
	assert.Equal(t, "comp", snap.Search)
	assert.Equal(t, state.Selection{"root/src/components"}, snap.Selection)

	require.NoError(t, s.SearchChanged("zzz"))
	assert.Equal(t, state.Selection{"root/src/components"}, s.Snapshot().Selection)
	assert.Equal(t, state.HighlightSelected, s.Highlight("root/src/components", "components"))
	assert.Equal(t, state.HighlightDefault, s.Highlight("root/docs", "docs"))
}

func TestBatch(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		s, st, rec := newSession(t)
		require.NoError(t, s.NodeClicked("root/src/utils", false))
		require.NoError(t, s.NodeClicked("root/src", true))

		require.NoError(t, s.BatchDeleteRequested())
		assert.Equal(t, 3, tree.Count(s.Tree()))
		assert.Empty(t, saved(t, st).Selection)
		require.Len(t, rec.records, 1)
		assert.Equal(t, journal.OpDelete, rec.records[0].Op)
	})

	t.Run("delete with nothing selected", func(t *testing.T) {
		s, _, rec := newSession(t)
		require.NoError(t, s.BatchDeleteRequested())
		assert.Equal(t, 7, tree.Count(s.Tree()))
		assert.Empty(t, rec.records)
	})

	t.Run("move into", func(t *testing.T) {
		s, st, rec := newSession(t)
		require.NoError(t, s.NodeClicked("root/test", false))
		require.NoError(t, s.NodeClicked("root/src/components", true))
		require.NoError(t, s.NodeToggled("root/src/components"))

		require.NoError(t, s.BatchMoveRequested(" root/docs "))
		docs, ok := treepath.Resolve(s.Tree(), "root/docs")
		require.True(t, ok)
		require.Len(t, docs.Children, 2)
		assert.Equal(t, "test", docs.Children[0].Name)
		assert.True(t, saved(t, st).Collapsed["root/docs/components"])
		require.Len(t, rec.records, 1)
	})

	t.Run("blank target cancels", func(t *testing.T) {
		s, _, _ := newSession(t)
		require.NoError(t, s.NodeClicked("root/test", false))
		before := s.Tree()
		require.NoError(t, s.BatchMoveRequested("   "))
		assert.Same(t, before, s.Tree())
		assert.Equal(t, state.Selection{"root/test"}, s.Snapshot().Selection)
	})

	t.Run("missing target", func(t *testing.T) {
		s, _, _ := newSession(t)
		require.NoError(t, s.NodeClicked("root/test", false))
		assert.ErrorIs(t, s.BatchMoveRequested("root/zzz"), edit.ErrTargetNotFound)
		assert.Equal(t, state.Selection{"root/test"}, s.Snapshot().Selection)
	})

	t.Run("expand and collapse", func(t *testing.T) {
		s, st, _ := newSession(t)
		require.NoError(t, s.NodeClicked("root/src", false))
		require.NoError(t, s.NodeClicked("root/src/utils", true))

		require.NoError(t, s.BatchExpandCollapseRequested(false))
		snap := saved(t, st)
		assert.True(t, snap.Collapsed["root/src"])
		assert.True(t, snap.Collapsed["root/src/utils"])

		require.NoError(t, s.BatchExpandCollapseRequested(true))
		assert.False(t, saved(t, st).Collapsed["root/src"])
	})
}

func TestInputModeAndReset(t *testing.T) {
	s, st, _ := newSession(t)

	require.NoError(t, s.InputModeChanged(store.InputPath))
	assert.Equal(t, store.InputPath, saved(t, st).InputType)
	assert.ErrorIs(t, s.InputModeChanged("csv"), session.ErrUnknownMode)

	require.NoError(t, s.Reset())
	assert.Nil(t, s.Tree())
	keys, err := st.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

type failingStore struct {
	*store.Store
}

func (failingStore) SaveSnapshot(store.Snapshot) error { return errors.New("disk full") }

func TestSaveFailureKeepsState(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.SaveSnapshot(store.Snapshot{InputType: store.InputJSON, JSONInput: sampleJSON}))

	s, err := session.Open(failingStore{st}, session.Options{})
	require.NoError(t, err)
	before := s.Tree()

	assert.Error(t, s.NodeDragDropped("root/docs", "root/src"))
	assert.Same(t, before, s.Tree())
	assert.Error(t, s.NodeClicked("root/docs", false))
	assert.Empty(t, s.Snapshot().Selection)
}
