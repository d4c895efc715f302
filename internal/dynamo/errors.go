package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDegenerateGeometry indicates two colliding particles share a center,
	// or a particle has no outward direction from the boundary center.
	ErrDegenerateGeometry = errors.New("dynamo: degenerate geometry (zero-length direction)")

	// ErrInvalidMass indicates a non-positive mass at construction time.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrInvalidRadius indicates a non-positive radius at construction time.
	ErrInvalidRadius = errors.New("dynamo: radius must be positive")

	// ErrInvalidTimestep indicates a non-positive dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrInvalidState indicates a particle position became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrIDSpaceExhausted indicates an Add would wrap the particle id counter.
	ErrIDSpaceExhausted = errors.New("dynamo: particle id space exhausted")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step     int
	Time     float64
	Particle uint64
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) particle %d: %v", e.Step, e.Time, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
