package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
)

// LogViewerState holds the log panel state. Entries come from the logging
// ring, which is only populated in TUI mode.
type LogViewerState struct {
	Open         bool
	FilterLevel  log.Level
	ScrollOffset int
	ring         *logging.RingBuffer
}

// NewLogViewerState returns a closed panel over ring.
func NewLogViewerState(ring *logging.RingBuffer) *LogViewerState {
	return &LogViewerState{FilterLevel: log.DebugLevel, ring: ring}
}

// Toggle opens or closes the panel.
func (s *LogViewerState) Toggle() {
	s.Open = !s.Open
}

// SetFilterLevel changes the minimum level shown and resets the scroll.
func (s *LogViewerState) SetFilterLevel(level log.Level) {
	s.FilterLevel = level
	s.ScrollOffset = 0
}

// Entries returns the entries at or above the filter level.
func (s *LogViewerState) Entries() []logging.Entry {
	if s.ring == nil {
		return nil
	}
	return filterEntriesByLevel(s.ring.Tail(-1), s.FilterLevel)
}

// ScrollUp scrolls up by one line.
func (s *LogViewerState) ScrollUp() {
	if s.ScrollOffset > 0 {
		s.ScrollOffset--
	}
}

// ScrollDown scrolls down by one line.
func (s *LogViewerState) ScrollDown(visibleRows int) {
	maxOffset := max(len(s.Entries())-visibleRows, 0)
	if s.ScrollOffset < maxOffset {
		s.ScrollOffset++
	}
}

func filterEntriesByLevel(entries []logging.Entry, minLevel log.Level) []logging.Entry {
	result := make([]logging.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= minLevel {
			result = append(result, e)
		}
	}
	return result
}

func clampLogScroll(offset, total, visible int) int {
	if total <= visible || offset < 0 {
		return 0
	}
	return min(offset, total-visible)
}

func logLevelStyle(level log.Level) lipgloss.Style {
	switch level {
	case log.DebugLevel:
		return logDebugStyle
	case log.WarnLevel:
		return logWarnStyle
	case log.ErrorLevel, log.FatalLevel:
		return logErrorStyle
	default:
		return logInfoStyle
	}
}

func logLevelChar(level log.Level) string {
	switch level {
	case log.DebugLevel:
		return "D"
	case log.InfoLevel:
		return "I"
	case log.WarnLevel:
		return "W"
	case log.ErrorLevel:
		return "E"
	default:
		return "?"
	}
}

// View renders the panel in height lines.
func (s *LogViewerState) View(width, height int) string {
	if height < 3 {
		return ""
	}

	var b strings.Builder
	title := titleStyle.Render(fmt.Sprintf(" Logs [%s] ", s.FilterLevel))
	b.WriteString(title + mutedTextStyle.Render("[1-4] filter  [L] close"))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	visibleRows := height - 2
	entries := s.Entries()
	s.ScrollOffset = clampLogScroll(s.ScrollOffset, len(entries), visibleRows)

	end := min(s.ScrollOffset+visibleRows, len(entries))
	shown := 0
	for _, e := range entries[s.ScrollOffset:end] {
		b.WriteString(renderLogEntry(e, width))
		b.WriteString("\n")
		shown++
	}
	for ; shown < visibleRows; shown++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderLogEntry formats "HH:MM:SS [L] component: message fields".
func renderLogEntry(e logging.Entry, width int) string {
	comp := e.Component
	if len(comp) > 10 {
		comp = comp[:10]
	}
	msg := e.Message
	if e.Fields != "" {
		msg += " " + e.Fields
	}
	prefix := 8 + 1 + 3 + 1 + len(comp) + 2
	if room := max(width-prefix, 10); len(msg) > room {
		msg = msg[:room-3] + "..."
	}
	return fmt.Sprintf("%s %s %s: %s",
		logTimeStyle.Render(e.Time.Format("15:04:05")),
		logLevelStyle(e.Level).Render("["+logLevelChar(e.Level)+"]"),
		logComponentStyle.Render(comp),
		msg)
}
