// Package dynamo provides the shared primitives of the particle simulation.
//
// The package has no dependencies on the rest of the module:
//
//   - [Vec2]: 2D float vector used for positions, forces and accelerations
//   - [Logger]: leveled logging interface injected into the physics core
//   - Sentinel errors such as [ErrDegenerateGeometry] and [ErrInvalidMass]
//
// # Example
//
//	a := dynamo.Vec2{X: 3, Y: 4}
//	dir, ok := a.Normalize()
//	if !ok {
//	    // zero-length vector, no direction
//	}
package dynamo
