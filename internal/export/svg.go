// Package export renders frames and sampled series as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/verletsim/internal/physics"
)

const (
	background    = "#0a0a0a"
	boundaryColor = "#3a3a3a"
	defaultFill   = "#ffffff"
)

// FrameToSVG draws the boundary and every particle of f, scaled so the
// boundary fills a size x size viewport.
func FrameToSVG(f physics.Frame, size int) string {
	if size <= 0 || f.Boundary.Radius <= 0 {
		return ""
	}

	scale := float64(size) / (2 * f.Boundary.Radius)
	minX := f.Boundary.X - f.Boundary.Radius
	minY := f.Boundary.Y - f.Boundary.Radius

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="1"/>
`, size, size, size, size, background, float64(size)/2, float64(size)/2, float64(size)/2, boundaryColor))

	for _, p := range f.Particles {
		fill := p.Color
		if fill == "" {
			fill = defaultFill
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, (p.X-minX)*scale, (p.Y-minY)*scale, p.Radius*scale, fill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a polyline
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	if n < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, times[i]), max(maxX, times[i])
		minY, maxY = min(minY, values[i]), max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
