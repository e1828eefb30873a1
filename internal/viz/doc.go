// Package viz renders relaxation grids in the terminal.
//
//   - [HeatMap]: coloured cell rendering of a grid using the current [Theme]
//   - [Canvas]: Braille canvas used for the flow arrow view
//   - [Live]: Bubble Tea model that relaxes a grid one sweep per tick
//   - [Picker]: scenario menu shown by `relaxlab live` without arguments
//
// # Key Bindings
//
//	Space - Pause/Resume sweeping
//	S     - Single sweep while paused
//	R     - Rebuild the grid and start over
//	A     - Toggle heat map / flow arrows
//	T     - Cycle color themes
//	+ -   - More or fewer sweeps per tick
//	Q     - Quit
package viz
