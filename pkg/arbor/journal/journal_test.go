package journal_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGet(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal"))
	require.NoError(t, err)

	rec, err := j.Append(journal.Record{
		Op:          journal.OpMove,
		Paths:       []string{"root/docs"},
		Target:      "root/src",
		NodesBefore: 7,
		NodesAfter:  7,
	})
	require.NoError(t, err)
	_, err = uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.False(t, rec.Time.IsZero())

	got, err := j.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, journal.OpMove, got.Op)
	assert.Equal(t, "root/src", got.Target)
	assert.True(t, rec.Time.Equal(got.Time))

	matches, err := filepath.Glob(filepath.Join(j.Dir(), "move-*-"+rec.ID+".json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestGetUnknown(t *testing.T) {
	j, err := journal.Open(t.TempDir())
	require.NoError(t, err)

	_, err = j.Get(uuid.NewString())
	assert.ErrorIs(t, err, journal.ErrNotFound)
	_, err = j.Get("../etc")
	assert.ErrorIs(t, err, journal.ErrNotFound)
}

func TestList(t *testing.T) {
	j, err := journal.Open(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, op := range []journal.Op{journal.OpImport, journal.OpRename, journal.OpDelete} {
		at := base.Add(time.Duration(i) * time.Minute)
		j.SetClock(func() time.Time { return at })
		_, err := j.Append(journal.Record{Op: op})
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(j.Dir(), "junk.json"), []byte("{"), 0o644))

	all, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, journal.OpDelete, all[0].Op)
	assert.Equal(t, journal.OpImport, all[2].Op)

	two, err := j.List(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestCleanup(t *testing.T) {
	j, err := journal.Open(t.TempDir())
	require.NoError(t, err)

	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -40)
	j.SetClock(func() time.Time { return old })
	_, err = j.Append(journal.Record{Op: journal.OpSwap})
	require.NoError(t, err)
	j.SetClock(func() time.Time { return now })
	_, err = j.Append(journal.Record{Op: journal.OpMoveInto})
	require.NoError(t, err)

	removed, err := j.Cleanup(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	left, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, journal.OpMoveInto, left[0].Op)

	removed, err = j.Cleanup(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestOpenEmptyDir(t *testing.T) {
	_, err := journal.Open("")
	assert.Error(t, err)
}
