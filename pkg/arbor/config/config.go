// Package config loads arbor's settings from config.yaml, ARBOR_* environment
// variables and built-in defaults, in increasing order of precedence for the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ARBOR_STORE_PATH.
const EnvPrefix = "ARBOR"

// Config is the full set of arbor settings.
type Config struct {
	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`

	Journal struct {
		Enabled       bool   `mapstructure:"enabled"`
		Path          string `mapstructure:"path"`
		RetentionDays int    `mapstructure:"retention_days"`
	} `mapstructure:"journal"`

	Import struct {
		Exclude      []string `mapstructure:"exclude"`
		MaxDepth     int      `mapstructure:"max_depth"`
		IncludeFiles bool     `mapstructure:"include_files"`
	} `mapstructure:"import"`

	Layout struct {
		NodeHeight float64 `mapstructure:"node_height"`
		LevelWidth float64 `mapstructure:"level_width"`
	} `mapstructure:"layout"`

	Move struct {
		// Strict also rejects moving a node up to one of its ancestors.
		Strict bool `mapstructure:"strict"`
	} `mapstructure:"move"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig mirrors logging.Options in file form.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
	Rotation   struct {
		MaxSize    string `mapstructure:"max_size"`
		MaxAge     int    `mapstructure:"max_age"`
		MaxBackups int    `mapstructure:"max_backups"`
		Daily      bool   `mapstructure:"daily"`
	} `mapstructure:"rotation"`
}

// Options converts the file form into logging.Options.
func (l LoggingConfig) Options() (logging.Options, error) {
	rot := logging.Rotation{
		Daily:      l.Rotation.Daily,
		Keep:       l.Rotation.MaxBackups,
		MaxAgeDays: l.Rotation.MaxAge,
	}
	if l.Rotation.MaxSize != "" {
		n, err := humanize.ParseBytes(l.Rotation.MaxSize)
		if err != nil {
			return logging.Options{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		rot.MaxBytes = int64(n)
	}
	return logging.Options{
		Level:      l.Level,
		File:       l.Path,
		Rotation:   rot,
		Components: l.Components,
	}, nil
}

// Load reads the configuration. An explicit file must exist; without one the
// standard locations are searched and a missing file is not an error.
func Load(file string) (*Config, error) {
	return LoadFrom(New(), file)
}

// LoadFrom is Load over a viper instance from New that may carry bound
// command-line flags.
func LoadFrom(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Store.Path = ExpandPath(cfg.Store.Path)
	cfg.Journal.Path = ExpandPath(cfg.Journal.Path)
	cfg.Logging.Path = ExpandPath(cfg.Logging.Path)
	return &cfg, nil
}

// New returns a viper instance with arbor's search paths, environment binding
// and defaults. The CLI binds its flags into it before calling Unmarshal.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "arbor"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	return v
}

// Dir is the configuration directory, $XDG_CONFIG_HOME/arbor.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "arbor")
}

// File is the default configuration file.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DataDir holds the state store and the journal.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "arbor")
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
