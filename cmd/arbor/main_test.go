package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"name":"root","children":[
	{"name":"src","children":[
		{"name":"components","children":[]},
		{"name":"utils","children":[{"name":"strings","children":[]}]}
	]},
	{"name":"docs","children":[]},
	{"name":"test"}
]}`

// resetFlags returns every flag to its default so commands can run again in
// the same process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// testEnv writes a config file pointing every directory into a temp dir.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "store:\n  path: " + filepath.Join(dir, "store") + "\n" +
		"journal:\n  enabled: true\n  path: " + filepath.Join(dir, "journal") + "\n" +
		"logging:\n  path: " + filepath.Join(dir, "arbor.log") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return cfgPath
}

func execute(t *testing.T, cfgPath string, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := execute(t, cfgPath, nil, args...)
	require.NoError(t, err, out)
	return out
}

func TestImportAndShow(t *testing.T) {
	cfgPath := testEnv(t)

	out := mustRun(t, cfgPath, "import", "--text", sampleJSON)
	assert.Contains(t, out, `Imported "root": 7 nodes, 4 levels`)

	out = mustRun(t, cfgPath, "show", "--format", "paths")
	assert.Equal(t, "root\nroot/src\nroot/src/components\nroot/src/utils\nroot/src/utils/strings\nroot/docs\nroot/test\n", out)

	out = mustRun(t, cfgPath, "show", "-f", "json")
	assert.Contains(t, out, `"name": "components"`)

	out = mustRun(t, cfgPath, "--no-interactive")
	assert.Contains(t, out, "strings")

	_, err := execute(t, cfgPath, nil, "show", "-f", "nope")
	assert.ErrorContains(t, err, "unknown format")
}

func TestImportStdinPathMode(t *testing.T) {
	cfgPath := testEnv(t)

	out, err := execute(t, cfgPath, strings.NewReader("a/b/c\n"), "import", "--mode", "path", "-")
	require.NoError(t, err, out)
	assert.Contains(t, out, `Imported "a": 3 nodes, 3 levels`)

	_, err = execute(t, cfgPath, nil, "import", "--text", "{")
	assert.Error(t, err)
	out = mustRun(t, cfgPath, "show")
	assert.Contains(t, out, "No tree loaded")

	_, err = execute(t, cfgPath, nil, "import")
	assert.ErrorContains(t, err, "nothing to import")
}

func TestImportDirectory(t *testing.T) {
	cfgPath := testEnv(t)
	src := filepath.Join(t.TempDir(), "proj")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "cmd", "app"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README.md"), []byte("x"), 0o644))

	mustRun(t, cfgPath, "import", "--dir", src)
	out := mustRun(t, cfgPath, "show", "-f", "paths")
	assert.Contains(t, out, "proj/cmd/app\n")
	assert.Contains(t, out, "proj/docs\n")
	assert.NotContains(t, out, "README.md")

	mustRun(t, cfgPath, "import", "--dir", src, "--include-files")
	out = mustRun(t, cfgPath, "show", "-f", "paths")
	assert.Contains(t, out, "proj/README.md\n")
}

func TestEditCommands(t *testing.T) {
	cfgPath := testEnv(t)
	mustRun(t, cfgPath, "import", "--text", sampleJSON)

	out := mustRun(t, cfgPath, "mv", "root/docs", "root/src")
	assert.Contains(t, out, "Moved root/docs into root/src")

	_, err := execute(t, cfgPath, nil, "mv", "root/src", "root/src/utils")
	assert.Error(t, err)

	mustRun(t, cfgPath, "rename", "root/src", "lib")
	mustRun(t, cfgPath, "swap", "root/lib", "root/test")
	out = mustRun(t, cfgPath, "show", "-f", "plain")
	assert.Equal(t, "root\n  test\n  lib\n    components\n    utils\n      strings\n    docs\n", out)

	out = mustRun(t, cfgPath, "select", "root/lib", "root/lib/docs")
	assert.Equal(t, "root/lib\nroot/lib/docs\n", out)

	out = mustRun(t, cfgPath, "search", "util")
	assert.Contains(t, out, "First match: root/lib/utils")
	out = mustRun(t, cfgPath, "search", "zzz")
	assert.Contains(t, out, `No match for "zzz"`)

	mustRun(t, cfgPath, "collapse", "root/lib")
	out = mustRun(t, cfgPath, "show", "-f", "plain")
	assert.NotContains(t, out, "components")
	mustRun(t, cfgPath, "collapse", "root/lib")
	out = mustRun(t, cfgPath, "show", "-f", "plain")
	assert.NotContains(t, out, "components", "collapsing twice keeps it collapsed")
	mustRun(t, cfgPath, "expand", "root/lib")
	out = mustRun(t, cfgPath, "show", "-f", "plain")
	assert.Contains(t, out, "components")

	out = mustRun(t, cfgPath, "mv", "--into", "root/test", "root/lib/docs", "root/lib/components")
	assert.Contains(t, out, "Moved 2 node(s) into root/test")

	out = mustRun(t, cfgPath, "rm", "root/lib")
	assert.Contains(t, out, "Deleted 3 node(s)")

	out = mustRun(t, cfgPath, "show", "-f", "paths")
	assert.Equal(t, "root\nroot/test\nroot/test/docs\nroot/test/components\n", out)

	out = mustRun(t, cfgPath, "reset")
	assert.Contains(t, out, "State cleared.")
	out = mustRun(t, cfgPath, "show")
	assert.Contains(t, out, "No tree loaded")
}

func TestRepeatedPathArgs(t *testing.T) {
	cfgPath := testEnv(t)
	mustRun(t, cfgPath, "import", "--text", sampleJSON)

	out := mustRun(t, cfgPath, "select", "root/docs", "root/test", "root/docs")
	assert.Equal(t, "root/docs\nroot/test\n", out)

	out = mustRun(t, cfgPath, "rm", "root/docs", "root/docs")
	assert.Contains(t, out, "Deleted 1 node(s)")

	out = mustRun(t, cfgPath, "show", "-f", "paths")
	assert.NotContains(t, out, "root/docs")
}

func TestHistory(t *testing.T) {
	cfgPath := testEnv(t)

	out := mustRun(t, cfgPath, "history")
	assert.Contains(t, out, "No history entries found.")

	mustRun(t, cfgPath, "import", "--text", sampleJSON)
	mustRun(t, cfgPath, "rename", "root/docs", "guides")

	out = mustRun(t, cfgPath, "history")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "rename")
	assert.Contains(t, out, "import")
	assert.Contains(t, out, "Showing 2 entries")

	out = mustRun(t, cfgPath, "history", "--limit", "1")
	assert.Contains(t, out, "Showing 1 entries")

	out = mustRun(t, cfgPath, "history", "clean")
	assert.Contains(t, out, "Removed 0 entries")
}

func TestExport(t *testing.T) {
	cfgPath := testEnv(t)
	mustRun(t, cfgPath, "import", "--text", sampleJSON)

	file := filepath.Join(t.TempDir(), "tree.svg")
	out := mustRun(t, cfgPath, "export", "svg", "-o", file)
	assert.Contains(t, out, "Wrote "+file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	out = mustRun(t, cfgPath, "export", "yaml")
	assert.Contains(t, out, "name: root")
}

func TestQuietSuppressesInfo(t *testing.T) {
	cfgPath := testEnv(t)
	out := mustRun(t, cfgPath, "--quiet", "import", "--text", sampleJSON)
	assert.Empty(t, out)
}

func TestVersion(t *testing.T) {
	cfgPath := testEnv(t)
	out := mustRun(t, cfgPath, "version")
	assert.Contains(t, out, "arbor "+version)
}

func TestSummarizePaths(t *testing.T) {
	assert.Equal(t, "", summarizePaths(nil, 2))
	assert.Equal(t, "a, b", summarizePaths([]string{"a", "b"}, 2))
	assert.Equal(t, "a, b (+2 more)", summarizePaths([]string{"a", "b", "c", "d"}, 2))
}

func TestReadInput(t *testing.T) {
	resetFlags(rootCmd)
	file := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(file, []byte(sampleJSON), 0o644))

	got, err := readInput(importCmd, []string{file})
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, got)

	importCmd.SetIn(strings.NewReader("a/b"))
	got, err = readInput(importCmd, []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "a/b", got)

	_, err = readInput(importCmd, []string{filepath.Join(t.TempDir(), "missing.json")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, importCmd.Flags().Set("text", "x/y"))
	got, err = readInput(importCmd, nil)
	require.NoError(t, err)
	assert.Equal(t, "x/y", got)

	importCmd.SetIn(nil)
	resetFlags(rootCmd)
}
