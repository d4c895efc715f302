package viz

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

// Viewport maps world coordinates onto canvas sub-pixels so that the
// boundary circle fits the canvas with a one-dot margin.
type Viewport struct {
	scale    float64
	originX  float64
	originY  float64
	centerPX float64
	centerPY float64
}

func NewViewport(b physics.BoundaryView, c *Canvas) Viewport {
	pw, ph := float64(c.Width*2), float64(c.Height*4)
	span := math.Min(pw, ph) - 2
	if span < 1 {
		span = 1
	}
	scale := 1.0
	if b.Radius > 0 {
		scale = span / (2 * b.Radius)
	}
	return Viewport{
		scale:    scale,
		originX:  b.X,
		originY:  b.Y,
		centerPX: pw / 2,
		centerPY: ph / 2,
	}
}

// Scale is sub-pixels per world unit.
func (v Viewport) Scale() float64 { return v.scale }

func (v Viewport) ToCanvas(p dynamo.Vec2) (int, int) {
	x := v.centerPX + (p.X-v.originX)*v.scale
	y := v.centerPY + (p.Y-v.originY)*v.scale
	return int(math.Floor(x)), int(math.Floor(y))
}

// ToWorld maps a sub-pixel back to the world point at its center.
func (v Viewport) ToWorld(x, y int) dynamo.Vec2 {
	return dynamo.Vec2{
		X: v.originX + (float64(x)+0.5-v.centerPX)/v.scale,
		Y: v.originY + (float64(y)+0.5-v.centerPY)/v.scale,
	}
}

// CellToWorld maps a terminal cell inside the canvas to the world point at
// its center.
func (v Viewport) CellToWorld(col, row int) dynamo.Vec2 {
	return v.ToWorld(col*2+1, row*4+2)
}

// DrawFrame renders f onto c.
func DrawFrame(c *Canvas, v Viewport, f physics.Frame, boundaryColor string) {
	cx, cy := v.ToCanvas(dynamo.Vec2{X: f.Boundary.X, Y: f.Boundary.Y})
	c.DrawCircle(cx, cy, f.Boundary.Radius*v.scale, boundaryColor)
	for _, p := range f.Particles {
		px, py := v.ToCanvas(dynamo.Vec2{X: p.X, Y: p.Y})
		c.FillCircle(px, py, p.Radius*v.scale, p.Color)
	}
}
