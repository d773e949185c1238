package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/stormview/internal/charts"
	"github.com/san-kum/stormview/internal/store"
)

func svgHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// CanvasToSVG renders every lit canvas dot as an SVG circle, scale
// pixels per sub-pixel.
func CanvasToSVG(canvas *charts.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	svgHeader(&sb, width, height)
	sb.WriteString("<g fill=\"#4dd0e1\">\n")

	r := scale * 0.4
	canvas.Dots(func(x, y int) {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
			float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// GenesisToSVG plots one season's genesis points as an SVG scatter over
// a fixed lat/lon viewport.
func GenesisToSVG(points []store.Point, width, height int) string {
	const (
		lonMin, lonMax = -180.0, 180.0
		latMin, latMax = -70.0, 70.0
	)

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	eq := latMax / (latMax - latMin) * float64(height)
	fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"#333\" stroke-width=\"0.5\"/>\n",
		eq, width, eq)
	sb.WriteString("<g fill=\"#4dd0e1\">\n")

	for _, p := range points {
		lon := p.Lon
		if lon > 180 {
			lon -= 360
		}
		x := (lon - lonMin) / (lonMax - lonMin) * float64(width)
		y := (latMax - p.Lat) / (latMax - latMin) * float64(height)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\"/>\n", x, y)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// GenesisToBrailleSVG rasterizes the season onto a Braille canvas the
// way the dashboard's track map does, frames the viewport, and renders
// the lit dots as SVG circles.
func GenesisToBrailleSVG(points []store.Point, cols, rows int, scale float64) string {
	c := charts.NewCanvas(cols, rows)
	charts.PlotGenesis(c, points)

	pw := cols*2 - 1
	ph := rows*4 - 1
	c.DrawLine(0, 0, pw, 0)
	c.DrawLine(pw, 0, pw, ph)
	c.DrawLine(pw, ph, 0, ph)
	c.DrawLine(0, ph, 0, 0)

	return CanvasToSVG(c, scale)
}
