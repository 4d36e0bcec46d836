package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/arbor/pkg/arbor/config"
	"github.com/jamesainslie/arbor/pkg/arbor/journal"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the edit journal",
	Long: `View the journal of committed edits.

Every import, move, swap, rename and delete is recorded with the paths it
touched and the tree size before and after. The journal is a record only;
it is not used to undo edits.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one journal record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove records older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of records to show")

	historyCmd.AddCommand(historyShowCmd, historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

func openJournal() (*journal.Journal, error) {
	return journal.Open(cfg.Journal.Path)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	records, err := j.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(records) == 0 {
		printInfo(cmd, "No history entries found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tOP\tNODES\tPATHS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d→%d\t%s\n",
			r.ID, humanize.Time(r.Time), r.Op, r.NodesBefore, r.NodesAfter, summarizePaths(r.Paths, 2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printInfo(cmd, "\nShowing %d entries. Use 'arbor history show <id>' for details.", len(records))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	r, err := j.Get(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:      %s\n", r.ID)
	fmt.Fprintf(out, "Time:    %s (%s)\n", r.Time.Local().Format("2006-01-02 15:04:05 MST"), humanize.Time(r.Time))
	fmt.Fprintf(out, "Op:      %s\n", r.Op)
	fmt.Fprintf(out, "Nodes:   %d → %d\n", r.NodesBefore, r.NodesAfter)
	if r.Target != "" {
		fmt.Fprintf(out, "Target:  %s\n", r.Target)
	}
	if r.Detail != "" {
		fmt.Fprintf(out, "Detail:  %s\n", r.Detail)
	}
	if len(r.Paths) > 0 {
		fmt.Fprintln(out, "Paths:")
		for _, p := range r.Paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

func runHistoryClean(cmd *cobra.Command, _ []string) error {
	j, err := openJournal()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	days := cfg.Journal.RetentionDays
	if days <= 0 {
		days = config.DefaultRetentionDays
	}
	removed, err := j.Cleanup(days)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	printInfo(cmd, "Removed %d entries older than %d days.", removed, days)
	return nil
}

// summarizePaths joins up to n paths and counts the rest.
func summarizePaths(paths []string, n int) string {
	if len(paths) <= n {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(paths[:n], ", "), len(paths)-n)
}
