package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// headerStats is what the header line shows.
type headerStats struct {
	Nodes    int
	Visible  int
	Selected int
	Search   string
	LastEdit string
	EditedAt time.Time
}

// renderAppHeader renders the title line with tree statistics.
func renderAppHeader(s headerStats) string {
	header := " 🌳 " + titleStyle.Render("ARBOR")
	header += mutedTextStyle.Render(fmt.Sprintf("  %s nodes  •  %s visible  •  %d selected",
		humanize.Comma(int64(s.Nodes)), humanize.Comma(int64(s.Visible)), s.Selected))
	if s.Search != "" {
		header += successTextStyle.Render(fmt.Sprintf("  ⌕ %q", s.Search))
	}
	if s.LastEdit != "" {
		header += mutedTextStyle.Render(fmt.Sprintf("  last %s %s", s.LastEdit, humanize.Time(s.EditedAt)))
	}
	return header
}
