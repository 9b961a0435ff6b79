// Package export writes finished layouts out for consumers: SVG for a
// quick look, JSON positions for the client that renders the graph.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
	"github.com/tfrere/joshua-exhibition-graph/internal/viz"
)

// LayoutSVG projects the graph through the camera and renders links as
// lines and nodes as circles, radius scaled by |charge|.
func LayoutSVG(nodes []force.Node, links []force.Link, cam *viz.Camera, width, height int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
`, width, height, width, height))

	sb.WriteString(`<g stroke="#3a3a5c" stroke-width="1">` + "\n")
	for _, l := range links {
		if l.Source < 0 || l.Source >= len(nodes) || l.Target < 0 || l.Target >= len(nodes) {
			continue
		}
		x1, y1, _, ok1 := cam.Project(nodes[l.Source].Position, width, height)
		x2, y2, _, ok2 := cam.Project(nodes[l.Target].Position, width, height)
		if !ok1 && !ok2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d"/>`+"\n", x1, y1, x2, y2))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g fill="#5ad1b3">` + "\n")
	for i := range nodes {
		x, y, _, ok := cam.Project(nodes[i].Position, width, height)
		if !ok {
			continue
		}
		r := 2 + math.Min(6, math.Abs(nodes[i].Charge))
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="%.1f"/>`+"\n", x, y, r))
	}
	sb.WriteString("</g>\n</svg>")

	return sb.String()
}

// WriteLayoutSVG renders to a file with a camera fitted to the layout.
func WriteLayoutSVG(path string, nodes []force.Node, links []force.Link, width, height int) error {
	cam := viz.NewCamera()
	cam.FitTo(nodes)
	return os.WriteFile(path, []byte(LayoutSVG(nodes, links, cam, width, height)), 0644)
}

// CanvasSVG converts a braille canvas string to SVG dots, mirroring
// exactly what the terminal showed.
func CanvasSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
<g fill="#5ad1b3">
`, width, height, width, height))

	dotBits := [4][2]int{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}
	radius := scale * 0.4

	row := 0
	for _, line := range strings.Split(canvas.String(), "\n") {
		col := 0
		for _, r := range line {
			if r < 0x2800 {
				col++
				continue
			}
			pattern := int(r - 0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotBits[dy][dx] == 0 {
						continue
					}
					cx := float64(col)*scale*2 + float64(dx)*scale + scale/2
					cy := float64(row)*scale*4 + float64(dy)*scale + scale/2
					sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, radius))
				}
			}
			col++
		}
		row++
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
