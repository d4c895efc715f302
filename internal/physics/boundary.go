package physics

import (
	"fmt"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Boundary is the circular world every particle is kept inside. It is
// immutable once constructed.
type Boundary struct {
	center dynamo.Vec2
	radius float64
}

func NewBoundary(center dynamo.Vec2, radius float64) (Boundary, error) {
	if !(radius > 0) {
		return Boundary{}, fmt.Errorf("boundary: %w (got %g)", dynamo.ErrInvalidRadius, radius)
	}
	return Boundary{center: center, radius: radius}, nil
}

// BoundaryForSurface fits the largest circle with radius height/2 in the
// middle of a width×height drawing surface.
func BoundaryForSurface(width, height float64) (Boundary, error) {
	return NewBoundary(dynamo.Vec2{X: width / 2, Y: height / 2}, height/2)
}

func (b Boundary) Center() dynamo.Vec2 { return b.center }
func (b Boundary) Radius() float64     { return b.radius }

// Contain pushes p back along the outward direction so that its edge is
// tangent to the inside of the boundary. The previous position is left alone,
// so the correction shows up as velocity on the next integration.
// It reports whether a correction was made.
func (b Boundary) Contain(p *Particle) (bool, error) {
	offset := p.position.Sub(b.center)
	dist := offset.Length()
	limit := b.radius - p.radius
	if dist <= limit {
		return false, nil
	}
	dir, ok := offset.Normalize()
	if !ok {
		return false, fmt.Errorf("contain particle %d: %w", p.id, dynamo.ErrDegenerateGeometry)
	}
	p.position = p.position.Sub(dir.Scale(dist - limit))
	return true, nil
}

// Contains reports whether p lies inside the boundary, allowing tolerance
// world units of slack.
func (b Boundary) Contains(p *Particle, tolerance float64) bool {
	return p.position.Sub(b.center).Length() <= b.radius-p.radius+tolerance
}
