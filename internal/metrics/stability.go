package metrics

import (
	"math"

	"github.com/san-kum/verletsim/internal/physics"
)

// Containment is the fraction of particles inside the boundary at the latest
// observation. An empty system counts as fully contained.
type Containment struct {
	name      string
	tolerance float64
	inside    int
	total     int
}

func NewContainment(tolerance float64) *Containment {
	return &Containment{
		name:      "containment",
		tolerance: tolerance,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(sys *physics.System, t float64) {
	b := sys.Boundary()
	c.inside, c.total = 0, sys.Len()
	for i := 0; i < c.total; i++ {
		if b.Contains(sys.Particle(i), c.tolerance) {
			c.inside++
		}
	}
}

func (c *Containment) Value() float64 {
	if c.total == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.total)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.total = 0
}

// Overlap tracks the deepest pairwise interpenetration, ra+rb-d, seen over
// the run. It walks every pair, so it costs as much as a step.
type Overlap struct {
	name string
	max  float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(sys *physics.System, t float64) {
	o.max = math.Max(o.max, MaxOverlap(sys))
}

func (o *Overlap) Value() float64 { return o.max }
func (o *Overlap) Reset()         { o.max = 0 }

// MaxOverlap returns the deepest current overlap between any two particles,
// or zero when none touch.
func MaxOverlap(sys *physics.System) float64 {
	deepest := 0.0
	n := sys.Len()
	for i := 0; i < n; i++ {
		a := sys.Particle(i)
		for j := i + 1; j < n; j++ {
			b := sys.Particle(j)
			d := a.Radius() + b.Radius() - a.Position().Sub(b.Position()).Length()
			if d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}
