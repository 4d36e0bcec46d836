// Package logging provides component loggers for arbor.
//
// Loggers are silent until Init is called. After Init every component logger
// writes to a rotating file; console output and the in-memory ring read by the
// TUI log panel are optional.
//
//	if err := logging.Init(logging.Options{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("session").Warn("move rejected", "source", src, "err", err)
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Options configures Init.
type Options struct {
	// Level is the default level: debug, info, warn or error.
	Level string

	// File is the log file. Empty means DefaultFile().
	File string

	Rotation Rotation

	// Components overrides Level per component name.
	Components map[string]string

	// Console mirrors entries at or above this level to stderr.
	// Empty disables it. Ignored in TUI mode.
	Console string

	// TUI keeps recent entries in a ring for the log panel and never writes
	// to the terminal.
	TUI bool
}

// Entry is one record kept in the ring.
type Entry struct {
	Time      time.Time
	Level     log.Level
	Component string
	Message   string
	// Fields holds the key/value pairs rendered as "k=v k=v".
	Fields string
}

// Logger writes records for one component.
type Logger struct {
	component string
	level     log.Level
	file      *log.Logger
	console   *log.Logger
}

func (l *Logger) Debug(msg string, kv ...any) { l.emit(log.DebugLevel, msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.emit(log.InfoLevel, msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.emit(log.WarnLevel, msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.emit(log.ErrorLevel, msg, kv) }

func (l *Logger) emit(level log.Level, msg string, kv []any) {
	l.file.Log(level, msg, kv...)
	if l.console != nil {
		l.console.Log(level, msg, kv...)
	}
	if level < l.level {
		return
	}
	if ring := Ring(); ring != nil {
		ring.Append(Entry{
			Time:      time.Now(),
			Level:     level,
			Component: l.component,
			Message:   msg,
			Fields:    formatFields(kv),
		})
	}
}

// With returns a logger that adds kv to every record.
func (l *Logger) With(kv ...any) *Logger {
	out := *l
	out.file = l.file.With(kv...)
	if l.console != nil {
		out.console = l.console.With(kv...)
	}
	return &out
}

func formatFields(kv []any) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v", kv[i])
		}
	}
	return b.String()
}

type registry struct {
	mu         sync.RWMutex
	active     bool
	level      log.Level
	components map[string]log.Level
	console    log.Level
	hasConsole bool
	out        *RotatingFile
	ring       *RingBuffer
	loggers    map[string]*Logger
}

var reg = &registry{
	level:      log.InfoLevel,
	components: map[string]log.Level{},
	loggers:    map[string]*Logger{},
}

// Init configures every component logger, including ones handed out before.
// Calling it again replaces the previous configuration.
func Init(opts Options) error {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}
	components := make(map[string]log.Level, len(opts.Components))
	for name, lvl := range opts.Components {
		l, err := parseLevel(lvl)
		if err != nil {
			return fmt.Errorf("component %s: %w", name, err)
		}
		components[name] = l
	}
	var console log.Level
	hasConsole := opts.Console != "" && !opts.TUI
	if hasConsole {
		if console, err = parseLevel(opts.Console); err != nil {
			return fmt.Errorf("console: %w", err)
		}
	}

	file := opts.File
	if file == "" {
		file = DefaultFile()
	}
	out, err := OpenRotatingFile(file, opts.Rotation)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.out != nil {
		_ = reg.out.Close()
	}
	reg.active = true
	reg.level = level
	reg.components = components
	reg.console = console
	reg.hasConsole = hasConsole
	reg.out = out
	reg.ring = nil
	if opts.TUI {
		reg.ring = NewRingBuffer(DefaultRingSize)
	}
	for name, l := range reg.loggers {
		*l = *reg.build(name)
	}
	return nil
}

// Close flushes the log file and returns every logger to silence.
func Close() error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if !reg.active {
		return nil
	}
	err := reg.out.Close()
	reg.active = false
	reg.out = nil
	reg.ring = nil
	reg.components = map[string]log.Level{}
	for name, l := range reg.loggers {
		*l = *reg.build(name)
	}
	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

// Get returns the logger for component, creating it on first use.
func Get(component string) *Logger {
	reg.mu.RLock()
	l, ok := reg.loggers[component]
	reg.mu.RUnlock()
	if ok {
		return l
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if l, ok := reg.loggers[component]; ok {
		return l
	}
	l = reg.build(component)
	reg.loggers[component] = l
	return l
}

// Ring returns the TUI ring, or nil outside TUI mode.
func Ring() *RingBuffer {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.ring
}

// build must be called with reg.mu held.
func (r *registry) build(component string) *Logger {
	level := r.level
	if l, ok := r.components[component]; ok {
		level = l
	}
	if !r.active {
		return &Logger{
			component: component,
			level:     log.FatalLevel + 1,
			file:      log.NewWithOptions(io.Discard, log.Options{Prefix: component}),
		}
	}

	l := &Logger{
		component: component,
		level:     level,
		file: log.NewWithOptions(r.out, log.Options{
			Level:           level,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		}),
	}
	if r.hasConsole {
		l.console = log.NewWithOptions(os.Stderr, log.Options{
			Level:           r.console,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          component,
		})
	}
	return l
}

func parseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	if strings.EqualFold(s, "warning") {
		return log.WarnLevel, nil
	}
	l, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// DefaultFile is $XDG_STATE_HOME/arbor/arbor.log.
func DefaultFile() string {
	return filepath.Join(xdg.StateHome, "arbor", "arbor.log")
}
