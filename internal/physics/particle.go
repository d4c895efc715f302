package physics

import (
	"fmt"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Particle is a circular point mass integrated with position Verlet.
type Particle struct {
	id       uint64
	position dynamo.Vec2
	previous dynamo.Vec2
	radius   float64
	mass     float64
	acc      dynamo.Vec2
	color    string
}

// NewParticle creates a particle at rest at pos. Non-positive mass or radius
// is rejected.
func NewParticle(id uint64, pos dynamo.Vec2, radius, mass float64, color string) (Particle, error) {
	p := Particle{
		id:       id,
		position: pos,
		previous: pos,
		radius:   radius,
		mass:     mass,
		color:    color,
	}
	if err := p.validate(); err != nil {
		return Particle{}, err
	}
	return p, nil
}

func (p *Particle) validate() error {
	if !(p.mass > 0) {
		return fmt.Errorf("particle %d: %w (got %g)", p.id, dynamo.ErrInvalidMass, p.mass)
	}
	if !(p.radius > 0) {
		return fmt.Errorf("particle %d: %w (got %g)", p.id, dynamo.ErrInvalidRadius, p.radius)
	}
	return nil
}

// ApplyForce accumulates force/mass into the particle's acceleration.
func (p *Particle) ApplyForce(force dynamo.Vec2) {
	p.acc = p.acc.Add(force.Scale(1 / p.mass))
}

// Integrate advances the particle one step:
//
//	v    = cur - prev
//	prev = cur
//	cur  = cur + v + acc*dt²
//
// and clears the accumulated acceleration.
func (p *Particle) Integrate(dt float64) {
	velocity := p.position.Sub(p.previous)
	p.previous = p.position
	p.position = p.position.Add(velocity).Add(p.acc.Scale(dt * dt))
	p.acc = dynamo.Vec2{}
}

// IsColliding reports whether the two circles overlap. Touching edges do not count.
func (p *Particle) IsColliding(other *Particle) bool {
	r := p.radius + other.radius
	return r*r > p.position.Sub(other.position).LengthSquared()
}

// IsSameAs compares identity by id.
func (p *Particle) IsSameAs(other *Particle) bool {
	return p.id == other.id
}

// Velocity returns the per-step displacement implied by the position history.
func (p *Particle) Velocity() dynamo.Vec2 {
	return p.position.Sub(p.previous)
}

// SetVelocity rewrites the previous position so that the next integration
// carries the particle by v.
func (p *Particle) SetVelocity(v dynamo.Vec2) {
	p.previous = p.position.Sub(v)
}

// Accessors. Setters do not validate; callers own the preconditions.

func (p *Particle) ID() uint64                    { return p.id }
func (p *Particle) Position() dynamo.Vec2         { return p.position }
func (p *Particle) PreviousPosition() dynamo.Vec2 { return p.previous }
func (p *Particle) Radius() float64               { return p.radius }
func (p *Particle) Mass() float64                 { return p.mass }
func (p *Particle) Acceleration() dynamo.Vec2     { return p.acc }
func (p *Particle) Color() string                 { return p.color }

func (p *Particle) SetID(id uint64)                      { p.id = id }
func (p *Particle) SetPosition(pos dynamo.Vec2)          { p.position = pos }
func (p *Particle) SetPreviousPosition(prev dynamo.Vec2) { p.previous = prev }
func (p *Particle) SetRadius(r float64)                  { p.radius = r }
func (p *Particle) SetMass(m float64)                    { p.mass = m }
func (p *Particle) SetAcceleration(a dynamo.Vec2)        { p.acc = a }
func (p *Particle) SetColor(c string)                    { p.color = c }
