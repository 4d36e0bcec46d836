package store_test

import (
	"testing"

	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetPutDelete(t *testing.T) {
	s := openMem(t)

	_, err := s.Get(store.KeySearch)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(store.KeySearch, "comp"))
	v, err := s.Get(store.KeySearch)
	require.NoError(t, err)
	assert.Equal(t, "comp", v)

	require.NoError(t, s.Delete(store.KeySearch))
	_, err = s.Get(store.KeySearch)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, s.Delete("never-set"))
}

func TestSnapshot(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		snap, err := openMem(t).LoadSnapshot()
		require.NoError(t, err)
		assert.Equal(t, store.InputJSON, snap.InputType)
		assert.Empty(t, snap.JSONInput)
		assert.NotNil(t, snap.Selection)
		assert.NotNil(t, snap.Collapsed)
	})

	t.Run("round trip", func(t *testing.T) {
		s := openMem(t)
		want := store.Snapshot{
			InputType: store.InputPath,
			JSONInput: `{"name":"root"}`,
			PathInput: "root/src",
			Search:    "src",
			Selection: state.Selection{"root/src", "root"},
			Collapsed: state.Collapse{"root/src": true, "root/docs": false},
		}
		require.NoError(t, s.SaveSnapshot(want))

		got, err := s.LoadSnapshot()
		require.NoError(t, err)
		assert.Equal(t, want, got)

		keys, err := s.Keys()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			store.KeyInputType, store.KeyJSONInput, store.KeyPathInput,
			store.KeySearch, store.KeySelection, store.KeyCollapsed,
		}, keys)

		raw, err := s.Get(store.KeySelection)
		require.NoError(t, err)
		assert.JSONEq(t, `["root/src","root"]`, raw)
	})

	t.Run("unreadable values load empty", func(t *testing.T) {
		s := openMem(t)
		require.NoError(t, s.Put(store.KeySelection, "not json"))
		require.NoError(t, s.Put(store.KeyCollapsed, "[1,2]"))
		require.NoError(t, s.Put(store.KeyInputType, "bogus"))

		snap, err := s.LoadSnapshot()
		require.NoError(t, err)
		assert.Empty(t, snap.Selection)
		assert.Empty(t, snap.Collapsed)
		assert.Equal(t, store.InputJSON, snap.InputType)
	})

	t.Run("nil state saves as empty JSON", func(t *testing.T) {
		s := openMem(t)
		require.NoError(t, s.SaveSnapshot(store.Snapshot{InputType: store.InputJSON}))
		raw, err := s.Get(store.KeyCollapsed)
		require.NoError(t, err)
		assert.Equal(t, "{}", raw)
	})
}

func TestClear(t *testing.T) {
	s := openMem(t)
	require.NoError(t, s.SaveSnapshot(store.Snapshot{InputType: store.InputPath, PathInput: "a/b"}))
	require.NoError(t, s.Clear())

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)

	schema, err := s.Schema()
	require.NoError(t, err)
	assert.Equal(t, store.SchemaVersion, schema.Version)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	s, err := store.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(store.KeyPathInput, "root/src/components"))
	require.NoError(t, s.Close())

	s, err = store.Open(dir)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(store.KeyPathInput)
	require.NoError(t, err)
	assert.Equal(t, "root/src/components", v)

	schema, err := s.Schema()
	require.NoError(t, err)
	assert.Equal(t, store.SchemaVersion, schema.Version)
	assert.False(t, schema.CreatedAt.IsZero())
}
