package sim

import (
	"github.com/san-kum/verletsim/internal/physics"
)

// Metric accumulates a scalar over a run. Value is read at every sample
// and once more for the run summary.
type Metric interface {
	Name() string
	Observe(sys *physics.System, t float64)
	Value() float64
	Reset()
}

// Observer is called after every step.
type Observer interface {
	OnStep(step int, t float64, sys *physics.System)
}

// Emitter adds particles to the system before a step runs.
type Emitter interface {
	Emit(sys *physics.System, step int) (int, error)
}

type Config struct {
	Dt            float64
	Steps         int
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Steps:         1200,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Sample is one row of the recorded series. Values follow Result.MetricNames.
type Sample struct {
	Step   int
	Time   float64
	Count  int
	Values []float64
}

type Result struct {
	MetricNames []string
	Samples     []Sample
	Metrics     map[string]float64
	Stats       physics.Stats
	StepsTaken  int
	Emitted     int
}

// Series returns the sampled values of the named metric, or nil if the run
// did not record it.
func (r *Result) Series(name string) []float64 {
	idx := -1
	for i, n := range r.MetricNames {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Values[idx]
	}
	return out
}

// Counts returns the particle count at every sample.
func (r *Result) Counts() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Count)
	}
	return out
}
