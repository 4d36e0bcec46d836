package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/output"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the tree",
	Long: fmt.Sprintf(`Print the tree in one of the formats: %s.

json and yaml print the full tree. The other formats respect collapse
state and highlight the selection and search matches.`, strings.Join(output.Available(), ", ")),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(func(w *workspace) error {
			return render(cmd, w, showFormat)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Write the tree to a file",
	Long: `Write the tree in the given format to --output, or to stdout.

Examples:
  arbor export svg -o tree.svg
  arbor export json -o tree.json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: output.Available(),
	RunE:      runExport,
}

var (
	showFormat   string
	exportOutput string
)

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "pretty", "output format")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(showCmd, exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := output.Get(args[0])
	if err != nil {
		return err
	}
	return withSession(func(w *workspace) error {
		if exportOutput == "" {
			return f.Format(cmd.OutOrStdout(), w.view())
		}
		file, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		if err := f.Format(file, w.view()); err != nil {
			_ = file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		printInfo(cmd, "Wrote %s", exportOutput)
		return nil
	})
}
