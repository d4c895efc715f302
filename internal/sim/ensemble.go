package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/verletsim/internal/physics"
)

// Member is one independent run of an ensemble. Each member owns its own
// System, Runner and metrics, so nothing is shared between goroutines.
type Member struct {
	System *physics.System
	Runner *Runner
}

// Factory builds the member for a seed.
type Factory func(seed int64) (Member, error)

type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps the number of members running at once. Zero or less means
// no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run executes every member and returns results indexed by run. The first
// failing member cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		seed := e.seedStart + int64(i)
		idx := i
		g.Go(func() error {
			m, err := e.factory(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			res, err := m.Runner.Run(ctx, m.System, cfg)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
