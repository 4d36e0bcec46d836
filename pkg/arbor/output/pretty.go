package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/arbor/pkg/arbor/projection"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
)

// Markers drawn before a node name.
const (
	MarkerExpanded  = "▼"
	MarkerCollapsed = "▶"
	MarkerLeaf      = "•"
)

func formatPretty(w io.Writer, v *View) error {
	if v.Root == nil {
		_, err := fmt.Fprintln(w, ErrorStyle.Render("No tree loaded. Import one with `arbor import`."))
		return err
	}
	rows := v.Rows()

	var b strings.Builder
	b.WriteString(prettyHeader(v, rows))
	b.WriteByte('\n')
	for i := range rows {
		b.WriteString(PrettyRow(rows, i, v.Highlight(rows[i].Path, rows[i].Node.Name)))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func prettyHeader(v *View, rows []projection.Row) string {
	parts := []string{
		LabelStyle.Render("Nodes:") + " " + ValueStyle.Render(humanize.Comma(int64(tree.Count(v.Root)))),
		LabelStyle.Render("Visible:") + " " + ValueStyle.Render(humanize.Comma(int64(len(rows)))),
		LabelStyle.Render("Selected:") + " " + ValueStyle.Render(humanize.Comma(int64(len(v.Selection)))),
	}
	if v.Search != "" {
		parts = append(parts, LabelStyle.Render("Search:")+" "+MatchedStyle.Render(v.Search))
	}
	return HeaderBox.Render(strings.Join(parts, "  "))
}

// PrettyRow renders rows[i] with tree guides, a collapse marker and the
// highlighted name.
func PrettyRow(rows []projection.Row, i int, h state.Highlight) string {
	row := rows[i]
	var b strings.Builder
	b.WriteString(GuideStyle.Render(Guides(rows, i)))

	marker := MarkerLeaf
	switch {
	case row.Collapsed:
		marker = MarkerCollapsed
	case row.Node.HasChildren():
		marker = MarkerExpanded
	}
	b.WriteString(MarkerStyle.Render(marker))
	b.WriteByte(' ')
	b.WriteString(NameStyle(h).Render(row.Node.Name))
	if row.Collapsed {
		b.WriteString(GuideStyle.Render(fmt.Sprintf(" (+%s)", humanize.Comma(int64(row.Hidden)))))
	}
	return b.String()
}

// Guides returns the box-drawing prefix for rows[i].
func Guides(rows []projection.Row, i int) string {
	row := rows[i]
	if row.Depth == 0 {
		return ""
	}
	// lastAt[d] tells whether the ancestor at depth d was its parent's last
	// child, which decides between a continuing bar and blank space.
	lastAt := make([]bool, row.Depth+1)
	lastAt[row.Depth] = row.Last
	need := row.Depth - 1
	for j := i - 1; j >= 0 && need >= 1; j-- {
		if rows[j].Depth == need {
			lastAt[need] = rows[j].Last
			need--
		}
	}

	var b strings.Builder
	for d := 1; d < row.Depth; d++ {
		if lastAt[d] {
			b.WriteString("   ")
		} else {
			b.WriteString("│  ")
		}
	}
	if row.Last {
		b.WriteString("└─ ")
	} else {
		b.WriteString("├─ ")
	}
	return b.String()
}
