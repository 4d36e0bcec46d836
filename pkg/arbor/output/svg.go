package output

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/jamesainslie/arbor/pkg/arbor/layout"
	"github.com/jamesainslie/arbor/pkg/arbor/projection"
)

const (
	svgMargin = 120
	svgRadius = 6
)

// formatSVG draws the projection as a left-to-right node-link diagram.
func formatSVG(w io.Writer, v *View) error {
	if v.Root == nil {
		return errNoTree
	}
	res := layout.Compute(projection.Project(v.Root, v.Collapsed), v.Layout)

	width := int(res.Width) + 2*svgMargin
	height := int(res.Height) + svgMargin
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", svgMargin, svgMargin/2))

	canvas.Gstyle(fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", hexLink))
	for _, l := range res.Links {
		p, c := res.Nodes[l.Parent], res.Nodes[l.Child]
		mid := int((p.X + c.X) / 2)
		canvas.Bezier(int(p.X), int(p.Y), mid, int(p.Y), mid, int(c.Y), int(c.X), int(c.Y))
	}
	canvas.Gend()

	canvas.Gstyle("font-family:sans-serif;font-size:12px")
	for _, n := range res.Nodes {
		h := v.Highlight(n.Path, n.Name)
		x, y := int(n.X), int(n.Y)
		canvas.Circle(x, y, svgRadius, fmt.Sprintf("fill:%s;stroke:white;stroke-width:1.5", hexFor(h)))
		if n.HasChildren {
			canvas.Text(x-svgRadius-4, y+4, n.Name, "text-anchor:end")
		} else {
			canvas.Text(x+svgRadius+4, y+4, n.Name, "text-anchor:start")
		}
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return nil
}
