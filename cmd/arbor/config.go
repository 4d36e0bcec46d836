package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jamesainslie/arbor/pkg/arbor/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage arbor configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/arbor/config.yaml
  2. ~/.config/arbor/config.yaml

Environment variables override file settings using the ARBOR_ prefix:
  ARBOR_STORE_PATH=/tmp/arbor
  ARBOR_MOVE_STRICT=true
  ARBOR_LOGGING_LEVEL=debug`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configFile())
		if _, err := os.Stat(configFile()); os.IsNotExist(err) {
			printVerbose(cmd, "File does not exist (using defaults)")
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		created, err := config.WriteDefault(configFile())
		if err != nil {
			return err
		}
		if !created {
			printInfo(cmd, "Config file already exists: %s", configFile())
			printInfo(cmd, "Use 'arbor config edit' to modify it.")
			return nil
		}
		printInfo(cmd, "Created default config file: %s", configFile())
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in $VISUAL, $EDITOR or vi.
A default file is created first if none exists.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if used := v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", used)
	} else {
		fmt.Fprintf(out, "Config file: (using defaults, no file found)\n\n")
	}

	rows := []struct {
		key   string
		value any
	}{
		{"store.path", cfg.Store.Path},
		{"journal.enabled", cfg.Journal.Enabled},
		{"journal.path", cfg.Journal.Path},
		{"journal.retention_days", cfg.Journal.RetentionDays},
		{"import.exclude", cfg.Import.Exclude},
		{"import.max_depth", cfg.Import.MaxDepth},
		{"import.include_files", cfg.Import.IncludeFiles},
		{"layout.node_height", cfg.Layout.NodeHeight},
		{"layout.level_width", cfg.Layout.LevelWidth},
		{"move.strict", cfg.Move.Strict},
		{"logging.level", cfg.Logging.Level},
		{"logging.path", cfg.Logging.Path},
		{"logging.rotation.max_size", cfg.Logging.Rotation.MaxSize},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-26s %v\n", r.key+":", r.value)
	}

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	overridden := false
	for _, r := range rows {
		name := config.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(r.key, ".", "_"))
		if val, ok := os.LookupEnv(name); ok {
			fmt.Fprintf(out, "%s=%s\n", name, val)
			overridden = true
		}
	}
	if !overridden {
		fmt.Fprintln(out, "(none)")
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configFile()
	if _, err := config.WriteDefault(path); err != nil {
		return err
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	printVerbose(cmd, "Opening %s with %s", path, editor)

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}
	return nil
}
