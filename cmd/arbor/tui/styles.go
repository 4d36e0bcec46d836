// Package tui is arbor's interactive tree editor, built on Bubble Tea,
// Lip Gloss and Bubbles.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/arbor/pkg/arbor/output"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// The TUI reuses the formatter palette so rows look the same in both.
var (
	frameColor  = output.ColorPrimary
	pickedColor = output.ColorSelected
	okColor     = output.ColorMatched
	dimColor    = output.ColorMuted
	failColor   = output.ColorDanger
	cursorBg    = lipgloss.Color("236")
)

var (
	outerBoxStyle = output.HeaderBox
	dividerStyle  = lipgloss.NewStyle().Foreground(cursorBg)

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(frameColor)
	mutedTextStyle   = lipgloss.NewStyle().Foreground(dimColor)
	errorTextStyle   = output.ErrorStyle
	successTextStyle = lipgloss.NewStyle().Foreground(okColor)
	warningTextStyle = lipgloss.NewStyle().Foreground(pickedColor)
	promptLabelStyle = titleStyle

	cursorRowStyle  = lipgloss.NewStyle().Background(cursorBg).Bold(true)
	dragSourceStyle = lipgloss.NewStyle().Foreground(pickedColor).Italic(true)
)

// Log panel, one style per level.
var (
	logTimeStyle      = mutedTextStyle
	logComponentStyle = lipgloss.NewStyle().Foreground(frameColor)
	logDebugStyle     = mutedTextStyle
	logInfoStyle      = successTextStyle
	logWarnStyle      = warningTextStyle
	logErrorStyle     = errorTextStyle.Bold(true)
)

func renderDivider(width int) string {
	return dividerStyle.Render(strings.Repeat("─", max(width, 0)))
}

// clip shortens s to width, marking the cut with an ellipsis.
func clip(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:max(width, 0)]
	}
	return s[:width-3] + "..."
}

// shortPath drops leading segments of p until it fits width, so the node
// name stays readable: "root/a/b/c" -> ".../b/c".
func shortPath(p string, width int) string {
	if len(p) <= width {
		return p
	}
	segments := treepath.Split(p)
	for i := 1; i < len(segments); i++ {
		s := ".../" + treepath.Join(segments[i:]...)
		if len(s) <= width {
			return s
		}
	}
	return clip(treepath.Base(p), width)
}

// center pads s on both sides to width.
func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
