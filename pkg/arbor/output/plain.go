package output

import (
	"bufio"
	"io"
	"strings"
)

// formatPlain writes visible node names indented two spaces per level.
func formatPlain(w io.Writer, v *View) error {
	bw := bufio.NewWriter(w)
	for _, row := range v.Rows() {
		bw.WriteString(strings.Repeat("  ", row.Depth))
		bw.WriteString(row.Node.Name)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// formatPaths writes every visible path, one per line.
func formatPaths(w io.Writer, v *View) error {
	bw := bufio.NewWriter(w)
	for _, row := range v.Rows() {
		bw.WriteString(row.Path)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
