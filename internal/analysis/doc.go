// Package analysis extracts periodic structure from recorded traces.
//
//   - [FFT], [PowerSpectrum]: transform of a real series of any length
//   - [DominantPeriod]: strongest period of a trace, in samples
//   - [OrbitPeriod]: frames per orbit expected for a speed multiplier
//
// # Orbit Period
//
// The apparent shift of a star follows cos(phase), so the dominant period
// of a recorded offset trace is the orbital period in frames:
//
//	period, err := analysis.DominantPeriod(offsets)
//	// period ≈ analysis.OrbitPeriod(speed)
package analysis
