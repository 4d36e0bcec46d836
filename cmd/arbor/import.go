package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/arbor/pkg/arbor/parse"
	"github.com/jamesainslie/arbor/pkg/arbor/store"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/watcher"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the tree from JSON, a path string or a directory",
	Long: `Replace the saved tree.

Input is read from the file argument, from --text, or from stdin when the
file is "-". With --mode path the input is a slash-delimited chain such as
"root/src/components". With --dir a real folder hierarchy is imported.

Importing resets the selection. Collapse state is kept.

Examples:
  arbor import tree.json
  echo '{"name":"root","children":[]}' | arbor import -
  arbor import --mode path --text root/src/components
  arbor import --dir . --max-depth 2
  arbor import --watch tree.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var (
	importMode         string
	importText         string
	importDir          string
	importWatch        bool
	importIncludeFiles bool
	importMaxDepth     int
	importExclude      []string
)

func init() {
	importCmd.Flags().StringVarP(&importMode, "mode", "m", store.InputJSON, "input mode: json or path")
	importCmd.Flags().StringVarP(&importText, "text", "t", "", "input text instead of a file")
	importCmd.Flags().StringVarP(&importDir, "dir", "d", "", "import the folder hierarchy under this directory")
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "re-import the file whenever it changes")
	importCmd.Flags().BoolVar(&importIncludeFiles, "include-files", false, "with --dir, add files as leaves")
	importCmd.Flags().IntVar(&importMaxDepth, "max-depth", 0, "with --dir, limit depth (0 = config value)")
	importCmd.Flags().StringSliceVarP(&importExclude, "exclude", "e", nil, "with --dir, extra exclude patterns")
	importCmd.MarkFlagsMutuallyExclusive("text", "dir")
	importCmd.MarkFlagsMutuallyExclusive("watch", "text")
	importCmd.MarkFlagsMutuallyExclusive("watch", "dir")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importDir != "" {
		return importDirectory(cmd)
	}
	if importWatch {
		if len(args) == 0 || args[0] == "-" {
			return errors.New("--watch needs a file argument")
		}
		return watchFile(cmd, args[0])
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	return withSession(func(w *workspace) error {
		if err := w.session.TreeImportSubmitted(importMode, text); err != nil {
			return err
		}
		reportImport(cmd, w.session.Tree())
		return nil
	})
}

// readInput returns --text, the named file, or stdin for "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case cmd.Flags().Changed("text"):
		return importText, nil
	case len(args) == 0:
		return "", errors.New("nothing to import: pass a file, - for stdin, --text or --dir")
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func importDirectory(cmd *cobra.Command) error {
	opts := parse.DirOptions{
		IncludeFiles: cfg.Import.IncludeFiles || importIncludeFiles,
		Exclude:      append(append([]string{}, cfg.Import.Exclude...), importExclude...),
		MaxDepth:     cfg.Import.MaxDepth,
	}
	if importMaxDepth > 0 {
		opts.MaxDepth = importMaxDepth
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := parse.Dir(ctx, importDir, opts)
	if err != nil {
		return err
	}
	data, err := parse.Serialize(root)
	if err != nil {
		return err
	}
	return withSession(func(w *workspace) error {
		if err := w.session.TreeImportSubmitted(store.InputJSON, string(data)); err != nil {
			return err
		}
		reportImport(cmd, root)
		return nil
	})
}

// watchFile imports path now and again after every change until interrupted.
func watchFile(cmd *cobra.Command, path string) error {
	wt, err := watcher.New(path, watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer wt.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withSession(func(w *workspace) error {
		submit := func(data []byte) {
			if err := w.session.TreeImportSubmitted(importMode, string(data)); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				return
			}
			reportImport(cmd, w.session.Tree())
		}

		data, err := os.ReadFile(wt.Path())
		if err != nil {
			return err
		}
		submit(data)
		printInfo(cmd, "Watching %s (Ctrl+C to stop)", wt.Path())

		if err := wt.Run(ctx, submit); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func reportImport(cmd *cobra.Command, root *tree.Node) {
	if root == nil {
		return
	}
	printInfo(cmd, "Imported %q: %s nodes, %d levels",
		root.Name, humanize.Comma(int64(tree.Count(root))), tree.Height(root)+1)
}
