package physics

// ParticleView is the render-facing subset of a particle.
type ParticleView struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

type BoundaryView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Frame is what a renderer needs to draw one step.
type Frame struct {
	Step      uint64         `json:"step"`
	Boundary  BoundaryView   `json:"boundary"`
	Particles []ParticleView `json:"particles"`
}

// Snapshot captures the current positions for a rendering pass.
func (s *System) Snapshot() Frame {
	f := Frame{
		Step: s.stats.Steps,
		Boundary: BoundaryView{
			X:      s.boundary.center.X,
			Y:      s.boundary.center.Y,
			Radius: s.boundary.radius,
		},
		Particles: make([]ParticleView, len(s.particles)),
	}
	for i := range s.particles {
		p := &s.particles[i]
		f.Particles[i] = ParticleView{
			ID:     p.id,
			X:      p.position.X,
			Y:      p.position.Y,
			Radius: p.radius,
			Color:  p.color,
		}
	}
	return f
}
