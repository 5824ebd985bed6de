// Package sim holds the per-frame state of the parallax simulator.
//
// Earth moves on a circular orbit around the Sun while two stars sit on a line
// through the Sun. Each call to [Simulator.Step] advances the orbital phase (when
// playing) and derives everything the views need:
//
//   - Earth position on the orbit
//   - annual parallax p = 1/d of each star
//   - sightline angles from the orbit points A and B
//   - a highlight that flares when Earth passes A or B
//
// The derived quantities are published as an immutable [Frame].
//
// # Coordinates
//
// World coordinates follow the screen: x grows to the right and y grows
// downwards. The stars therefore sit at negative y, and Earth's position is
// (R cos φ, -R sin φ) so that increasing φ moves it counter-clockwise on screen.
//
// # Thread Safety
//
// A Simulator is owned by a single render loop and is NOT safe for concurrent
// use. Frames are values and may be shared freely.
package sim
