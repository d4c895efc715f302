package storage

import (
	"fmt"
	"strconv"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

func vec(x, y float64) dynamo.Vec2 { return dynamo.Vec2{X: x, Y: y} }

// Series is the sampled table of a run, column-major.
type Series struct {
	Names  []string    `json:"names"`
	Times  []float64   `json:"times"`
	Counts []float64   `json:"counts"`
	Values [][]float64 `json:"values"`
}

// Column returns the samples of the named metric, or nil.
func (s *Series) Column(name string) []float64 {
	for i, n := range s.Names {
		if n == name {
			return s.Values[i]
		}
	}
	return nil
}

func (s *Store) LoadSamples(runID string) (*Series, error) {
	records, err := readCSV(s.Path(runID, samplesFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s: empty samples file", runID)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("run %s: malformed samples header %v", runID, header)
	}
	series := &Series{
		Names:  append([]string(nil), header[2:]...),
		Values: make([][]float64, len(header)-2),
	}

	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("run %s: sample row %d has %d fields, want %d", runID, i+1, len(record), len(header))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: sample row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		series.Times = append(series.Times, vals[0])
		series.Counts = append(series.Counts, vals[1])
		for j := range series.Names {
			series.Values[j] = append(series.Values[j], vals[j+2])
		}
	}
	return series, nil
}

// LoadParticles rebuilds the final particle collection of a run.
func (s *Store) LoadParticles(runID string) ([]physics.Particle, error) {
	records, err := readCSV(s.Path(runID, particlesFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s: empty particles file", runID)
	}

	out := make([]physics.Particle, 0, len(records)-1)
	for i, r := range records[1:] {
		if len(r) != 8 {
			return nil, fmt.Errorf("run %s: particle row %d has %d fields, want 8", runID, i+1, len(r))
		}
		id, err := strconv.ParseUint(r[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: particle row %d: %w", runID, i+1, err)
		}
		nums := make([]float64, 6)
		for j := range nums {
			if nums[j], err = strconv.ParseFloat(r[j+1], 64); err != nil {
				return nil, fmt.Errorf("run %s: particle row %d: %w", runID, i+1, err)
			}
		}
		p, err := physics.NewParticle(id, vec(nums[0], nums[1]), nums[4], nums[5], r[7])
		if err != nil {
			return nil, fmt.Errorf("run %s: particle row %d: %w", runID, i+1, err)
		}
		p.SetPreviousPosition(vec(nums[2], nums[3]))
		out = append(out, p)
	}
	return out, nil
}

// LoadFrame builds the render frame of a run's final state.
func (s *Store) LoadFrame(runID string) (physics.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return physics.Frame{}, err
	}
	particles, err := s.LoadParticles(runID)
	if err != nil {
		return physics.Frame{}, err
	}

	f := physics.Frame{
		Step:      uint64(meta.StepsTaken),
		Boundary:  meta.Boundary,
		Particles: make([]physics.ParticleView, len(particles)),
	}
	for i := range particles {
		p := &particles[i]
		f.Particles[i] = physics.ParticleView{
			ID:     p.ID(),
			X:      p.Position().X,
			Y:      p.Position().Y,
			Radius: p.Radius(),
			Color:  p.Color(),
		}
	}
	return f, nil
}
