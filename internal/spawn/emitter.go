package spawn

import (
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/physics"
)

// Emitter adds particles on a fixed step cadence until its total is reached.
type Emitter struct {
	spawner *Spawner
	cfg     config.EmitterConfig
	radius  config.RadiusRange
	mass    float64
	emitted int
}

func NewEmitter(sp *Spawner, cfg config.EmitterConfig, radius config.RadiusRange, mass float64) *Emitter {
	return &Emitter{spawner: sp, cfg: cfg, radius: radius, mass: mass}
}

// Emit spawns this step's burst, if any, and returns how many particles were
// added. With no spread the whole burst shares one position and goes through
// a single bulk Add.
func (e *Emitter) Emit(sys *physics.System, step int) (int, error) {
	if e.Done() || e.cfg.Every <= 0 || step%e.cfg.Every != 0 {
		return 0, nil
	}
	n := e.cfg.Count
	if left := e.cfg.Total - e.emitted; n > left {
		n = left
	}

	if e.cfg.Spread == 0 {
		req := Request{
			Position: e.cfg.Position,
			Velocity: e.cfg.Velocity,
			Radius:   e.spawner.Radius(e.radius),
			Mass:     e.mass,
			Count:    n,
		}
		if _, err := e.spawner.Spawn(sys, req); err != nil {
			return 0, err
		}
		e.emitted += n
		return n, nil
	}

	for i := 0; i < n; i++ {
		req := Request{
			Position: e.spawner.Jitter(e.cfg.Position, e.cfg.Spread),
			Velocity: e.cfg.Velocity,
			Radius:   e.spawner.Radius(e.radius),
			Mass:     e.mass,
			Count:    1,
		}
		if _, err := e.spawner.Spawn(sys, req); err != nil {
			return i, err
		}
		e.emitted++
	}
	return n, nil
}

func (e *Emitter) Emitted() int { return e.emitted }
func (e *Emitter) Done() bool   { return e.emitted >= e.cfg.Total }
func (e *Emitter) Reset()       { e.emitted = 0 }
