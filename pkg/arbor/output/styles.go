package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
)

// Palette shared by the pretty formatter, the SVG formatter and the TUI.
const (
	ColorPrimary  = lipgloss.Color("39")
	ColorSelected = lipgloss.Color("214")
	ColorMatched  = lipgloss.Color("42")
	ColorMuted    = lipgloss.Color("245")
	ColorDanger   = lipgloss.Color("196")
)

// Hex colors for SVG, matching the palette above.
const (
	hexDefault  = "#1e88e5"
	hexSelected = "#ffa000"
	hexMatched  = "#43a047"
	hexLink     = "#9e9e9e"
)

var (
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	LabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	GuideStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	MarkerStyle   = lipgloss.NewStyle().Foreground(ColorPrimary)
	DefaultStyle  = lipgloss.NewStyle()
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorSelected).Bold(true)
	MatchedStyle  = lipgloss.NewStyle().Foreground(ColorMatched).Underline(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ColorDanger)
)

// NameStyle returns the style for a node with the given highlight.
func NameStyle(h state.Highlight) lipgloss.Style {
	switch h {
	case state.HighlightSelected:
		return SelectedStyle
	case state.HighlightMatched:
		return MatchedStyle
	default:
		return DefaultStyle
	}
}

func hexFor(h state.Highlight) string {
	switch h {
	case state.HighlightSelected:
		return hexSelected
	case state.HighlightMatched:
		return hexMatched
	default:
		return hexDefault
	}
}
