// Package viz is the interactive terminal host for the particle system.
//
// [Model] is a Bubble Tea program that owns a [physics.System] and steps it
// once per frame with a smoothed frame delta. Particles are drawn onto a
// braille [Canvas] through a [Viewport] that fits the boundary circle to the
// terminal.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	P      - Spawn a particle at the cursor
//	Arrows - Move the cursor (also H/J/K/L)
//	Click  - Spawn a large particle under the pointer
//	D      - Toggle the info panel
//	R      - Remove every particle
//	T      - Cycle themes
//	G      - Toggle GIF recording
//	S      - Save the current frame as SVG
//	?      - Show help overlay
//	Q      - Quit
package viz
