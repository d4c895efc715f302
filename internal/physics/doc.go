// Package physics implements the particle simulation core.
//
// A [System] owns an ordered collection of circular [Particle] values and a
// fixed circular [Boundary]. Each call to [System.Step] visits every particle
// once, in insertion order:
//
//  1. apply the gravity force
//  2. clamp the particle inside the boundary
//  3. resolve overlaps against every other particle
//  4. integrate position (Verlet)
//
// Velocity is never stored. It is the difference between the current and the
// previous position, so any positional correction made before integration
// feeds into the next frame's velocity.
//
// # Scaling
//
// Collision detection is brute force: every particle is tested against every
// other particle, O(n²) per step. This bounds realistic particle counts to the
// low thousands on commodity hardware. There is no broad phase.
//
// # Thread Safety
//
// A System is NOT safe for concurrent use. Hosts that run goroutines must
// confine each System to a single goroutine.
package physics
