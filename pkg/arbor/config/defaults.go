package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults.
const (
	DefaultNodeHeight    = 40.0
	DefaultLevelWidth    = 160.0
	DefaultRetentionDays = 90
	DefaultLogMaxSize    = "5MB"
)

// DefaultExclude lists directory names skipped by `arbor import --dir`.
var DefaultExclude = []string{".git", "node_modules", ".cache"}

func defaults() map[string]any {
	return map[string]any{
		"store.path":                   filepath.Join(DataDir(), "state"),
		"journal.enabled":              true,
		"journal.path":                 filepath.Join(DataDir(), "journal"),
		"journal.retention_days":       DefaultRetentionDays,
		"import.exclude":               DefaultExclude,
		"import.max_depth":             0,
		"import.include_files":         false,
		"layout.node_height":           DefaultNodeHeight,
		"layout.level_width":           DefaultLevelWidth,
		"move.strict":                  false,
		"logging.level":                "info",
		"logging.path":                 "",
		"logging.rotation.max_size":    DefaultLogMaxSize,
		"logging.rotation.max_age":     14,
		"logging.rotation.max_backups": 3,
		"logging.rotation.daily":       true,
		"logging.components":           map[string]string{},
	}
}

const defaultFile = `# arbor configuration

store:
  # badger directory holding the saved session (default: $XDG_DATA_HOME/arbor/state)
  path: %q

journal:
  # record every committed edit as a JSON entry
  enabled: true
  path: %q
  retention_days: %d

import:
  # glob patterns skipped by "arbor import --dir"
  exclude: [".git", "node_modules", ".cache"]
  # 0 means unlimited
  max_depth: 0
  include_files: false

layout:
  node_height: %g
  level_width: %g

move:
  # also reject moving a node up to one of its ancestors
  strict: false

logging:
  # debug, info, warn, error
  level: info
  # empty means $XDG_STATE_HOME/arbor/arbor.log
  path: ""
  rotation:
    max_size: %s
    max_age: 14
    max_backups: 3
    daily: true
  components:
    session: info
    store: info
`

// WriteDefault writes a commented config file to path unless one exists.
// It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}
	body := fmt.Sprintf(defaultFile,
		filepath.Join(DataDir(), "state"),
		filepath.Join(DataDir(), "journal"),
		DefaultRetentionDays,
		DefaultNodeHeight,
		DefaultLevelWidth,
		DefaultLogMaxSize,
	)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
