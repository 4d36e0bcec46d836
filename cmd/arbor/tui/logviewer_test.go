package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/stretchr/testify/assert"
)

func filledRing(n int) *logging.RingBuffer {
	r := logging.NewRingBuffer(50)
	levels := []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel}
	for i := range n {
		r.Append(logging.Entry{
			Time:      time.Date(2024, 1, 1, 10, 0, i, 0, time.UTC),
			Level:     levels[i%len(levels)],
			Component: "session",
			Message:   fmt.Sprintf("message %d", i),
		})
	}
	return r
}

func TestLogViewerFilter(t *testing.T) {
	s := NewLogViewerState(filledRing(8))
	assert.Len(t, s.Entries(), 8)

	s.SetFilterLevel(log.WarnLevel)
	assert.Len(t, s.Entries(), 4)
	for _, e := range s.Entries() {
		assert.GreaterOrEqual(t, e.Level, log.WarnLevel)
	}

	assert.Empty(t, NewLogViewerState(nil).Entries())
}

func TestLogViewerScroll(t *testing.T) {
	s := NewLogViewerState(filledRing(10))
	s.ScrollUp()
	assert.Equal(t, 0, s.ScrollOffset)

	for range 20 {
		s.ScrollDown(4)
	}
	assert.Equal(t, 6, s.ScrollOffset)

	s.SetFilterLevel(log.ErrorLevel)
	assert.Equal(t, 0, s.ScrollOffset)
}

func TestClampLogScroll(t *testing.T) {
	assert.Equal(t, 0, clampLogScroll(5, 3, 10))
	assert.Equal(t, 0, clampLogScroll(-1, 30, 10))
	assert.Equal(t, 20, clampLogScroll(25, 30, 10))
	assert.Equal(t, 7, clampLogScroll(7, 30, 10))
}

func TestLogViewerView(t *testing.T) {
	s := NewLogViewerState(filledRing(3))
	assert.Empty(t, s.View(80, 2))

	out := s.View(80, 6)
	assert.Contains(t, out, "Logs [debug]")
	assert.Contains(t, out, "message 2")
	assert.Len(t, strings.Split(out, "\n"), 7)
}

func TestRenderLogEntry(t *testing.T) {
	e := logging.Entry{
		Time:      time.Date(2024, 1, 1, 9, 5, 7, 0, time.UTC),
		Level:     log.WarnLevel,
		Component: "a-very-long-component",
		Message:   strings.Repeat("x", 200),
		Fields:    "k=v",
	}
	line := renderLogEntry(e, 60)
	assert.Contains(t, line, "09:05:07")
	assert.Contains(t, line, "[W]")
	assert.Contains(t, line, "a-very-lon")
	assert.NotContains(t, line, "a-very-long")
	assert.Contains(t, line, "...")
	assert.Equal(t, "?", logLevelChar(log.FatalLevel))
}
