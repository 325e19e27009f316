// Package viz provides the terminal viewer for fractal sessions.
//
// The viewer is a Bubble Tea program over a [session.Session]:
//
//   - [Model]: live view of one session with a status panel
//   - [App]: preset picker that launches a [Model]
//   - [Canvas]: Braille canvas used for the membership view
//   - [HalfBlocks]: true-color rendering with two pixels per cell
//
// # Key Bindings
//
//	+/=      - Zoom in
//	-        - Zoom out
//	Arrows   - Pan (also h/j/k/l)
//	M        - Toggle color / membership view
//	R        - Reset the view
//	N        - Switch to the next preset
//	T        - Cycle color themes
//	G        - Toggle GIF recording
//	?        - Show help overlay
//	Q        - Quit
//
// # Recording
//
// While recording, every rendered frame is kept; the caller collects them
// from the final model with [Model.Recorded] and encodes the animation.
package viz
