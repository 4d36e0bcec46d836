package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/jamesainslie/arbor/pkg/arbor/config"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
	v       *viper.Viper

	rootCmd = &cobra.Command{
		Use:   "arbor",
		Short: "Browse and reshape folder trees",
		Long: `Arbor renders a folder hierarchy as a tree you can reshape: select,
move, swap, rename, delete and collapse nodes. The tree and your selection
are saved between runs.

By default, arbor opens the interactive tree editor.
Use --no-interactive to print the current tree instead.

Examples:
  arbor                                  # Open the editor
  arbor import tree.json                 # Load a tree from JSON
  arbor import --mode path a/b/c         # Load a chain from a path
  arbor import --dir ~/src               # Load a real folder hierarchy
  arbor mv root/docs root/src            # Move docs under src
  arbor show --format yaml               # Print the tree as YAML
  arbor export svg -o tree.svg           # Draw the tree`,
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		PersistentPreRunE:  initialize,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/arbor/config.yaml)")
	rootCmd.PersistentFlags().String("store", "", "state store directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.Flags().BoolP("no-interactive", "n", false, "print the tree instead of opening the editor")
}

// bindFlags starts a fresh viper instance carrying the root flags.
func bindFlags(root *cobra.Command) {
	v = config.New()
	_ = v.BindPFlag("store.path", root.PersistentFlags().Lookup("store"))
	_ = v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("quiet", root.PersistentFlags().Lookup("quiet"))
	_ = v.BindPFlag("no_interactive", root.Flags().Lookup("no-interactive"))
}

// initialize loads the configuration and starts file logging.
func initialize(cmd *cobra.Command, _ []string) error {
	bindFlags(cmd.Root())
	loaded, err := config.LoadFrom(v, cfgFile)
	if errors.Is(err, fs.ErrNotExist) && cmd.Parent() == configCmd {
		// config init and edit create the file they were pointed at.
		loaded, err = config.Load("")
	}
	if err != nil {
		return err
	}
	cfg = loaded
	return initLogging(false)
}

// initLogging (re)starts logging. The TUI keeps records in memory for its
// log panel instead of writing to the terminal.
func initLogging(tui bool) error {
	opts, err := cfg.Logging.Options()
	if err != nil {
		return err
	}
	switch {
	case tui:
		opts.TUI = true
	case getQuiet():
		opts.Console = ""
	case getVerbose():
		opts.Level = "debug"
		opts.Console = "debug"
	default:
		opts.Console = "warn"
	}
	if err := logging.Init(opts); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

func shutdown(*cobra.Command, []string) error {
	return logging.Close()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func getVerbose() bool {
	return v.GetBool("verbose")
}

func getQuiet() bool {
	return v.GetBool("quiet")
}

// printInfo prints a message unless quiet mode is enabled.
func printInfo(cmd *cobra.Command, format string, args ...any) {
	if !getQuiet() {
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}
}

// printVerbose prints a message in verbose mode.
func printVerbose(cmd *cobra.Command, format string, args ...any) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(cmd.ErrOrStderr(), "[DEBUG] "+format+"\n", args...)
	}
}

// configFile is the file in use, or the default location.
func configFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.File()
}
