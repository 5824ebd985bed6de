// Package viz renders the parallax simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view with the overhead canvas, info panel and sky strip
//   - [Canvas]: Braille-based pixel canvas with per-cell colours and labels
//   - [DrawOverhead], [DrawCelestial]: the two views of one [sim.Frame]
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Play/Pause the orbit
//	R     - Reset Earth to point A
//	Tab   - Cycle speed / distance X / distance Y
//	↑↓    - Adjust the selected slider by one step
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]/   - Time travel (rewind/forward)
//
// # Recording
//
// The G key records both canvases as a GIF animation. Labels are left out of
// the recording.
package viz
