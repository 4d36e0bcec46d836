package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/session"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select [path...]",
	Short: "Select nodes, or print the selection",
	Long: `Select nodes by path. The first path replaces the selection unless
--add is given; further paths are added to it. Selecting a path that is
already part of a multi-selection with --add removes it.

Without arguments the current selection is printed.`,
	RunE: runSelect,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Highlight names containing query and select the first match",
	Long: `Set the search query. Matching is case-insensitive substring
matching on node names. The first match in tree order is selected.
An empty query clears the search.`,
	RunE: runSearch,
}

var mvCmd = &cobra.Command{
	Use:   "mv <source> <target> | mv --into <target> [path...]",
	Short: "Move a subtree under another node",
	Long: `Move the subtree at source to become the last child of target.

With --into, every selected node (or every path given) is moved under
target in selection order.`,
	Example: `  arbor mv root/docs root/src
  arbor mv --into root/archive root/a root/b`,
	RunE: runMove,
}

var swapCmd = &cobra.Command{
	Use:   "swap <a> <b>",
	Short: "Exchange the positions of two subtrees",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(w *workspace) error {
			if err := w.session.NodesSwapped(args[0], args[1]); err != nil {
				return err
			}
			printInfo(cmd, "Swapped %s and %s", args[0], args[1])
			return nil
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <path> <name>",
	Short: "Rename a node",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(w *workspace) error {
			if err := w.session.RenameSubmitted(args[0], args[1]); err != nil {
				return err
			}
			printInfo(cmd, "Renamed %s to %q", args[0], strings.TrimSpace(args[1]))
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [path...]",
	Short: "Delete the selected subtrees",
	Long: `Delete every selected subtree, or the subtrees at the given paths.
The root cannot be deleted.`,
	RunE: runRemove,
}

var collapseCmd = &cobra.Command{
	Use:   "collapse [path...]",
	Short: "Hide the children of nodes",
	Long:  `Collapse the given nodes, or every selected node when no path is given.`,
	RunE:  func(cmd *cobra.Command, args []string) error { return runCollapse(cmd, args, false) },
}

var expandCmd = &cobra.Command{
	Use:   "expand [path...]",
	Short: "Show the children of collapsed nodes",
	Long:  `Expand the given nodes, or every selected node when no path is given.`,
	RunE:  func(cmd *cobra.Command, args []string) error { return runCollapse(cmd, args, true) },
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the saved tree and all state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(func(w *workspace) error {
			if err := w.session.Reset(); err != nil {
				return err
			}
			printInfo(cmd, "State cleared.")
			return nil
		})
	},
}

var (
	selectAdd bool
	moveInto  string
)

func init() {
	selectCmd.Flags().BoolVarP(&selectAdd, "add", "a", false, "add to the selection instead of replacing it")
	mvCmd.Flags().StringVar(&moveInto, "into", "", "move the selection under this path")

	rootCmd.AddCommand(selectCmd, searchCmd, mvCmd, swapCmd, renameCmd, rmCmd, collapseCmd, expandCmd, resetCmd)
}

// selectPaths clicks each distinct path once, modified for all but a
// replacing first click. A second click on the same path would deselect it.
func selectPaths(s *session.Session, paths []string, add bool) error {
	seen := make(map[string]bool, len(paths))
	clicked := 0
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		if err := s.NodeClicked(p, add || clicked > 0); err != nil {
			return err
		}
		clicked++
	}
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	return withSession(func(w *workspace) error {
		if err := selectPaths(w.session, args, selectAdd); err != nil {
			return err
		}
		sel := w.session.Snapshot().Selection
		if len(sel) == 0 {
			printInfo(cmd, "Nothing selected.")
			return nil
		}
		for _, p := range sel {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		if info, ok := w.session.Inspect(); ok {
			printVerbose(cmd, "primary %q has %d children", info.Name, info.Children)
		}
		return nil
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	return withSession(func(w *workspace) error {
		if err := w.session.SearchChanged(query); err != nil {
			return err
		}
		if query == "" {
			printInfo(cmd, "Search cleared.")
			return nil
		}
		if p, ok := state.Search(w.session.Tree(), query); ok {
			printInfo(cmd, "First match: %s", p)
		} else {
			printInfo(cmd, "No match for %q.", query)
		}
		return nil
	})
}

func runMove(cmd *cobra.Command, args []string) error {
	if moveInto != "" {
		return withSession(func(w *workspace) error {
			if err := selectPaths(w.session, args, false); err != nil {
				return err
			}
			n := len(w.session.Snapshot().Selection)
			if n == 0 {
				return errors.New("nothing selected to move")
			}
			if err := w.session.BatchMoveRequested(moveInto); err != nil {
				return err
			}
			printInfo(cmd, "Moved %d node(s) into %s", n, moveInto)
			return nil
		})
	}

	if len(args) != 2 {
		return errors.New("mv needs a source and a target, or --into")
	}
	return withSession(func(w *workspace) error {
		if err := w.session.NodeDragDropped(args[0], args[1]); err != nil {
			return err
		}
		printInfo(cmd, "Moved %s into %s", args[0], args[1])
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withSession(func(w *workspace) error {
		if err := selectPaths(w.session, args, false); err != nil {
			return err
		}
		if len(w.session.Snapshot().Selection) == 0 {
			printInfo(cmd, "Nothing selected.")
			return nil
		}
		before := tree.Count(w.session.Tree())
		if err := w.session.BatchDeleteRequested(); err != nil {
			return err
		}
		printInfo(cmd, "Deleted %d node(s)", before-tree.Count(w.session.Tree()))
		return nil
	})
}

func runCollapse(cmd *cobra.Command, args []string, expand bool) error {
	return withSession(func(w *workspace) error {
		if len(args) == 0 {
			return w.session.BatchExpandCollapseRequested(expand)
		}
		for _, p := range args {
			// Only toggle nodes not already in the requested state.
			if w.session.Snapshot().Collapsed.IsCollapsed(p) == expand {
				if err := w.session.NodeToggled(p); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
