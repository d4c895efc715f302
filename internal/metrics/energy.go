package metrics

import (
	"github.com/san-kum/verletsim/internal/physics"
)

// Kinetic returns the total kinetic energy of sys, with velocities recovered
// from the Verlet pair as (cur-prev)/dt.
func Kinetic(sys *physics.System, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < sys.Len(); i++ {
		p := sys.Particle(i)
		v := p.Velocity().Scale(1 / dt)
		total += 0.5 * p.Mass() * v.LengthSquared()
	}
	return total
}

// KineticEnergy reports the kinetic energy at the latest observation and
// keeps the peak seen during the run.
type KineticEnergy struct {
	name    string
	dt      float64
	current float64
	peak    float64
}

func NewKineticEnergy(dt float64) *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy", dt: dt}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(sys *physics.System, t float64) {
	e.current = Kinetic(sys, e.dt)
	if e.current > e.peak {
		e.peak = e.current
	}
}

func (e *KineticEnergy) Value() float64 { return e.current }
func (e *KineticEnergy) Peak() float64  { return e.peak }

func (e *KineticEnergy) Reset() {
	e.current = 0
	e.peak = 0
}

type Count struct {
	n int
}

func NewCount() *Count { return &Count{} }

func (c *Count) Name() string                           { return "count" }
func (c *Count) Observe(sys *physics.System, t float64) { c.n = sys.Len() }
func (c *Count) Value() float64                         { return float64(c.n) }
func (c *Count) Reset()                                 { c.n = 0 }
