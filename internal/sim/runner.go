package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

type Runner struct {
	emitter   Emitter
	metrics   []Metric
	observers []Observer
	log       dynamo.Logger
}

func New(log dynamo.Logger) *Runner {
	if log == nil {
		log = dynamo.NoOpLogger{}
	}
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (r *Runner) SetEmitter(e Emitter)   { r.emitter = e }
func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances sys cfg.Steps times. The first sample is taken before any
// step and the last after the final one. On cancellation the partial result
// is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, sys *physics.System, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		MetricNames: make([]string, len(r.metrics)),
		Samples:     make([]Sample, 0, cfg.Steps/every+2),
		Metrics:     make(map[string]float64, len(r.metrics)),
	}
	for i, m := range r.metrics {
		m.Reset()
		result.MetricNames[i] = m.Name()
	}

	t := 0.0
	r.observe(sys, t)
	result.Samples = append(result.Samples, r.sample(0, t, sys))

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			r.finish(result, sys)
			return result, ctx.Err()
		default:
		}

		if r.emitter != nil {
			n, err := r.emitter.Emit(sys, i)
			result.Emitted += n
			if err != nil {
				r.finish(result, sys)
				return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: err}
			}
		}

		sys.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++
		step := i + 1

		if cfg.ValidateState {
			if id, bad := sys.InvalidParticle(); bad {
				r.log.Errorf("step %d: particle %d left the finite plane", step, id)
				r.finish(result, sys)
				return result, &dynamo.SimulationError{Step: step, Time: t, Particle: id, Wrapped: dynamo.ErrInvalidState}
			}
		}

		r.observe(sys, t)
		for _, obs := range r.observers {
			obs.OnStep(step, t, sys)
		}
		if step%every == 0 || step == cfg.Steps {
			result.Samples = append(result.Samples, r.sample(step, t, sys))
		}
	}

	r.finish(result, sys)
	r.log.Debugf("run finished: %d steps, %d particles, %d collisions",
		result.StepsTaken, sys.Len(), result.Stats.Collisions)
	return result, nil
}

func (r *Runner) observe(sys *physics.System, t float64) {
	for _, m := range r.metrics {
		m.Observe(sys, t)
	}
}

func (r *Runner) sample(step int, t float64, sys *physics.System) Sample {
	s := Sample{Step: step, Time: t, Count: sys.Len(), Values: make([]float64, len(r.metrics))}
	for i, m := range r.metrics {
		s.Values[i] = m.Value()
	}
	return s
}

func (r *Runner) finish(result *Result, sys *physics.System) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Stats = sys.Stats()
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidTimestep, cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	return nil
}
