// Package spawn turns spawn requests from hosts into particles.
package spawn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

// Request describes particles to add at one position.
type Request struct {
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Radius   float64
	Mass     float64
	Color    string
	Count    int
}

type Spawner struct {
	rng *rand.Rand
	cfg config.SpawnConfig
}

func New(cfg config.SpawnConfig, seed int64) *Spawner {
	return &Spawner{
		rng: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

// Spawn adds the requested particles to sys and returns their ids. A zero
// count means one particle; a missing color gets a random one.
func (s *Spawner) Spawn(sys *physics.System, req Request) ([]uint64, error) {
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Color == "" {
		req.Color = s.RandomColor()
	}
	p, err := physics.NewParticle(sys.NextID(), req.Position, req.Radius, req.Mass, req.Color)
	if err != nil {
		return nil, fmt.Errorf("spawn at %v: %w", req.Position, err)
	}
	p.SetVelocity(req.Velocity)
	return sys.Add(p, req.Count)
}

// Click is the request for a pointer click: a large random radius.
func (s *Spawner) Click(pos dynamo.Vec2) Request {
	return s.request(pos, s.cfg.Click)
}

// Key is the request for the spawn key: a small random radius.
func (s *Spawner) Key(pos dynamo.Vec2) Request {
	return s.request(pos, s.cfg.Key)
}

func (s *Spawner) request(pos dynamo.Vec2, r config.RadiusRange) Request {
	return Request{
		Position: pos,
		Radius:   s.Radius(r),
		Mass:     s.cfg.Mass,
		Color:    s.RandomColor(),
		Count:    1,
	}
}

// Radius draws uniformly from [r.Min, r.Max).
func (s *Spawner) Radius(r config.RadiusRange) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}

// RandomColor returns a saturated random color as a hex tag.
func (s *Spawner) RandomColor() string {
	return colorful.Hsv(s.rng.Float64()*360, 0.55+s.rng.Float64()*0.4, 0.75+s.rng.Float64()*0.25).Hex()
}

// Jitter returns a point uniformly distributed in the disk of the given
// radius around center.
func (s *Spawner) Jitter(center dynamo.Vec2, spread float64) dynamo.Vec2 {
	if spread <= 0 {
		return center
	}
	angle := s.rng.Float64() * 2 * math.Pi
	r := spread * math.Sqrt(s.rng.Float64())
	return dynamo.Vec2{X: center.X + r*math.Cos(angle), Y: center.Y + r*math.Sin(angle)}
}
