package physics

import (
	"fmt"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// DeepPenetrationRatio is the fraction of the radii sum below which a
// collision is treated as inelastic.
const DeepPenetrationRatio = 0.9

// ResolveCollision separates two overlapping particles along the line between
// their centers, each moving half of the overlap. When the centers were closer
// than DeepPenetrationRatio of the radii sum, both previous positions are
// snapped to the corrected positions, cancelling their velocity.
//
// Coincident centers have no separating direction; the pair is left untouched
// and ErrDegenerateGeometry is returned.
func ResolveCollision(a, b *Particle) error {
	delta := a.position.Sub(b.position)
	dir, ok := delta.Normalize()
	if !ok {
		return fmt.Errorf("particles %d and %d: %w", a.id, b.id, dynamo.ErrDegenerateGeometry)
	}
	dist := delta.Length()
	target := a.radius + b.radius
	shift := dir.Scale((target - dist) * 0.5)

	a.position = a.position.Add(shift)
	b.position = b.position.Sub(shift)

	if dist < target*DeepPenetrationRatio {
		a.previous = a.position
		b.previous = b.position
	}
	return nil
}
