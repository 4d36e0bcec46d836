package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jamesainslie/arbor/pkg/arbor/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := watcher.New(filepath.Join(dir, "nope.json"), 0)
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := watcher.New(dir, 0)
		assert.Error(t, err)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "tree.json")
		writeFile(t, path, "{}")
		w, err := watcher.New(path, 0)
		require.NoError(t, err)
		assert.Equal(t, path, w.Path())
		require.NoError(t, w.Close())
		assert.NoError(t, w.Close(), "second close is a no-op")
	})
}

func TestRunDeliversSettledContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	other := filepath.Join(dir, "other.json")
	writeFile(t, path, `{"name":"a"}`)

	w, err := watcher.New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(data []byte) { got <- string(data) })
	}()

	// Give the event loop a moment to start.
	time.Sleep(20 * time.Millisecond)
	writeFile(t, other, "ignored")
	writeFile(t, path, `{"name":"b"}`)
	writeFile(t, path, `{"name":"c"}`)

	// A slow scheduler may split the burst; the last delivery must be the
	// final contents.
	deadline := time.After(2 * time.Second)
	for last := ""; last != `{"name":"c"}`; {
		select {
		case last = <-got:
			assert.Contains(t, []string{`{"name":"b"}`, `{"name":"c"}`}, last)
		case <-deadline:
			t.Fatal("final contents not delivered")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReturnsAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	writeFile(t, path, "{}")

	w, err := watcher.New(path, 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background(), func([]byte) {})
	}()
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, watcher.ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
