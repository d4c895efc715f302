package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// DefaultGravity is a constant downward force in screen coordinates (+y down).
var DefaultGravity = dynamo.Vec2{X: 0, Y: 2000}

// Stats holds cumulative counters since construction or the last Reset.
type Stats struct {
	Steps           uint64 `json:"steps"`
	Collisions      uint64 `json:"collisions"`
	DegenerateSkips uint64 `json:"degenerate_skips"`
	Corrections     uint64 `json:"corrections"`
}

// System owns the particles and the boundary they live in.
type System struct {
	particles []Particle
	boundary  Boundary
	gravity   dynamo.Vec2
	nextID    uint64
	stats     Stats
	log       dynamo.Logger
}

type Option func(*System)

func WithGravity(g dynamo.Vec2) Option {
	return func(s *System) { s.gravity = g }
}

func WithLogger(l dynamo.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCapacity preallocates room for n particles.
func WithCapacity(n int) Option {
	return func(s *System) {
		if n < 0 {
			n = 0
		}
		s.particles = make([]Particle, 0, n)
	}
}

func NewSystem(boundary Boundary, opts ...Option) *System {
	s := &System{
		boundary: boundary,
		gravity:  DefaultGravity,
		log:      dynamo.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Step advances every particle by dt. Particles are updated in place and in
// collection order, so a pair may be resolved against a partner that has
// already been integrated this step.
func (s *System) Step(dt float64) {
	for i := range s.particles {
		p := &s.particles[i]

		p.ApplyForce(s.gravity)

		corrected, err := s.boundary.Contain(p)
		if err != nil {
			s.stats.DegenerateSkips++
			s.log.Debugf("step %d: %v", s.stats.Steps, err)
		} else if corrected {
			s.stats.Corrections++
		}

		for j := range s.particles {
			if j == i {
				continue
			}
			other := &s.particles[j]
			if p.IsSameAs(other) || !p.IsColliding(other) {
				continue
			}
			if err := ResolveCollision(p, other); err != nil {
				s.stats.DegenerateSkips++
				s.log.Debugf("step %d: skipping pair: %v", s.stats.Steps, err)
				continue
			}
			s.stats.Collisions++
		}

		p.Integrate(dt)
	}
	s.stats.Steps++
}

// Add appends count copies of template. Copy k gets id base+k, where base is
// the template id or the next unused id, whichever is larger, so ids never
// repeat across calls. The assigned ids are returned.
func (s *System) Add(template Particle, count int) ([]uint64, error) {
	if err := template.validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}

	base := template.id
	if s.nextID > base {
		base = s.nextID
	}

	if base > math.MaxUint64-uint64(count) {
		return nil, fmt.Errorf("add %d particle(s) from id %d: %w", count, base, dynamo.ErrIDSpaceExhausted)
	}

	ids := make([]uint64, count)
	for k := 0; k < count; k++ {
		p := template
		p.id = base + uint64(k)
		s.particles = append(s.particles, p)
		ids[k] = p.id
	}
	s.nextID = base + uint64(count)

	s.log.Debugf("added %d particle(s) ids %d..%d", count, ids[0], ids[count-1])
	return ids, nil
}

func (s *System) Len() int { return len(s.particles) }

// NextID is the smallest id Add is guaranteed not to have handed out.
func (s *System) NextID() uint64 { return s.nextID }

// Particles returns a copy of the collection in insertion order.
func (s *System) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Particle returns a pointer into the collection. It is invalidated by the
// next Add or Reset.
func (s *System) Particle(i int) *Particle { return &s.particles[i] }

func (s *System) Boundary() Boundary        { return s.boundary }
func (s *System) Gravity() dynamo.Vec2      { return s.gravity }
func (s *System) SetGravity(g dynamo.Vec2)  { s.gravity = g }
func (s *System) Stats() Stats              { return s.stats }
func (s *System) SetLogger(l dynamo.Logger) { WithLogger(l)(s) }

// Reset drops every particle and clears the id counter and statistics.
func (s *System) Reset() {
	s.particles = s.particles[:0]
	s.nextID = 0
	s.stats = Stats{}
}

// InvalidParticle returns the id of the first particle with a non-finite
// position, if any.
func (s *System) InvalidParticle() (uint64, bool) {
	for i := range s.particles {
		p := &s.particles[i]
		if !p.position.IsValid() || !p.previous.IsValid() {
			return p.id, true
		}
	}
	return 0, false
}
