package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jamesainslie/arbor/pkg/arbor/output"
	"github.com/jamesainslie/arbor/pkg/arbor/projection"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
)

// TreeView scrolls a cursor over the visible rows of the projection.
type TreeView struct {
	rows   []projection.Row
	cursor int
	offset int
}

// NewTreeView returns an empty view.
func NewTreeView() *TreeView {
	return &TreeView{}
}

// SetRows replaces the rows, keeping the cursor on the same path when it is
// still visible.
func (tv *TreeView) SetRows(rows []projection.Row) {
	current := tv.CurrentPath()
	tv.rows = rows
	if i := projection.Index(rows, current); i >= 0 {
		tv.cursor = i
	}
	tv.clamp()
}

// Focus moves the cursor to path if it is visible.
func (tv *TreeView) Focus(path string) bool {
	i := projection.Index(tv.rows, path)
	if i < 0 {
		return false
	}
	tv.cursor = i
	return true
}

func (tv *TreeView) clamp() {
	if tv.cursor >= len(tv.rows) {
		tv.cursor = len(tv.rows) - 1
	}
	if tv.cursor < 0 {
		tv.cursor = 0
	}
}

// Move shifts the cursor by delta rows.
func (tv *TreeView) Move(delta int) {
	tv.cursor += delta
	tv.clamp()
}

// Top moves the cursor to the first row.
func (tv *TreeView) Top() { tv.cursor = 0 }

// Bottom moves the cursor to the last row.
func (tv *TreeView) Bottom() {
	tv.cursor = len(tv.rows) - 1
	tv.clamp()
}

// Current returns the row under the cursor.
func (tv *TreeView) Current() (projection.Row, bool) {
	if tv.cursor < 0 || tv.cursor >= len(tv.rows) {
		return projection.Row{}, false
	}
	return tv.rows[tv.cursor], true
}

// CurrentPath returns the path under the cursor, or "".
func (tv *TreeView) CurrentPath() string {
	r, ok := tv.Current()
	if !ok {
		return ""
	}
	return r.Path
}

// Len returns the number of rows.
func (tv *TreeView) Len() int { return len(tv.rows) }

func (tv *TreeView) ensureVisible(visible int) {
	if tv.cursor < tv.offset {
		tv.offset = tv.cursor
	} else if tv.cursor >= tv.offset+visible {
		tv.offset = tv.cursor - visible + 1
	}
	if tv.offset < 0 {
		tv.offset = 0
	}
}

// View renders up to height rows. highlight classifies each row and marked
// is the picked-up path, drawn distinctly.
func (tv *TreeView) View(width, height int, highlight func(path, name string) state.Highlight, marked string) string {
	if len(tv.rows) == 0 {
		return center(mutedTextStyle.Render("No tree loaded. Press i to import one."), width) + "\n"
	}
	if height < 1 {
		height = 1
	}
	tv.ensureVisible(height)

	var b strings.Builder
	end := min(tv.offset+height, len(tv.rows))
	for i := tv.offset; i < end; i++ {
		row := tv.rows[i]
		line := output.PrettyRow(tv.rows, i, highlight(row.Path, row.Node.Name))
		if row.Path == marked {
			line += dragSourceStyle.Render("  ⇢ picked")
		}
		if i == tv.cursor {
			pad := width - lipgloss.Width(line)
			if pad > 0 {
				line += strings.Repeat(" ", pad)
			}
			line = cursorRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := end - tv.offset; i < height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}
