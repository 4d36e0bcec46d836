package main

import (
	"errors"
	"fmt"

	"github.com/jamesainslie/arbor/cmd/arbor/tui"
	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/jamesainslie/arbor/pkg/arbor/layout"
	"github.com/jamesainslie/arbor/pkg/arbor/output"
	"github.com/jamesainslie/arbor/pkg/arbor/session"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/spf13/cobra"
)

// workspace is the opened state behind every command.
type workspace struct {
	store   *store.Store
	journal *journal.Journal
	session *session.Session
}

// openWorkspace opens the store, the journal when enabled, and the session.
func openWorkspace() (*workspace, error) {
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	w := &workspace{store: st}

	opts := session.Options{StrictMove: cfg.Move.Strict}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		w.journal = j
		opts.Journal = j
	}

	w.session, err = session.Open(st, opts)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return w, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// view captures the session for a formatter.
func (w *workspace) view() *output.View {
	snap := w.session.Snapshot()
	return &output.View{
		Root:      w.session.Tree(),
		Selection: snap.Selection,
		Collapsed: snap.Collapsed,
		Search:    snap.Search,
		Layout:    layoutOptions(),
	}
}

func layoutOptions() layout.Options {
	return layout.Options{
		NodeHeight: cfg.Layout.NodeHeight,
		LevelWidth: cfg.Layout.LevelWidth,
	}
}

// withSession runs fn against an opened workspace and closes it afterwards.
func withSession(fn func(w *workspace) error) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}
	return errors.Join(fn(w), w.Close())
}

// render writes the session with the named formatter.
func render(cmd *cobra.Command, w *workspace, format string) error {
	f, err := output.Get(format)
	if err != nil {
		return err
	}
	return f.Format(cmd.OutOrStdout(), w.view())
}

// runRoot opens the editor, or prints the tree with --no-interactive.
func runRoot(cmd *cobra.Command, _ []string) error {
	if v.GetBool("no_interactive") {
		return withSession(func(w *workspace) error {
			return render(cmd, w, "pretty")
		})
	}

	if err := initLogging(true); err != nil {
		return err
	}
	return withSession(func(w *workspace) error {
		return tui.Run(tui.Options{
			Session: w.session,
			Journal: w.journal,
		})
	})
}
