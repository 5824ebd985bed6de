package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	twoPi = 2 * math.Pi

	// CelestialGain converts arcseconds of parallax into strip pixels.
	CelestialGain = 50.0
	// CelestialSpan caps the X marker shift as a fraction of strip width.
	CelestialSpan = 0.08
	// CelestialBaseAngle is where both targets sit on the strip, in degrees.
	CelestialBaseAngle = 180.0
	// ReferenceStripWidth is the strip width used for recorded offsets.
	ReferenceStripWidth = 800.0
)

// WrapPhase maps any angle into [0, 2π).
func WrapPhase(phase float64) float64 {
	phase = math.Mod(phase, twoPi)
	if phase < 0 {
		phase += twoPi
	}
	// Mod of values just below a multiple of 2π can round up to 2π.
	if phase >= twoPi {
		phase = 0
	}
	return phase
}

// EarthPosition is the point on an orbit of radius r at the given phase.
func EarthPosition(phase, r float64) r2.Vec {
	return r2.Vec{
		X: r * math.Cos(phase),
		Y: -r * math.Sin(phase),
	}
}

// Parallax returns the annual parallax in arcseconds for a distance in parsecs.
func Parallax(distance float64) float64 {
	return 1 / distance
}

// SightlineAngle is the direction from one point to another.
func SightlineAngle(from, to r2.Vec) float64 {
	d := r2.Sub(to, from)
	return math.Atan2(d.Y, d.X)
}

// Sightlines computes the directions to star from orbit points a and b.
func Sightlines(star, a, b r2.Vec) Sightline {
	fromA := SightlineAngle(a, star)
	fromB := SightlineAngle(b, star)
	return Sightline{
		FromA: fromA,
		FromB: fromB,
		Angle: math.Abs(fromA - fromB),
	}
}

// StellarParallaxAngle is the angle at star between the Sun and the observer,
// folded into [0, π].
func StellarParallaxAngle(star, sun, observer r2.Vec) float64 {
	toSun := SightlineAngle(star, sun)
	toObs := SightlineAngle(star, observer)
	a := math.Abs(toSun - toObs)
	if a > math.Pi {
		a = twoPi - a
	}
	return a
}

// OrbitLocation labels the phase as near A, near B or in transit.
func OrbitLocation(phase float64) Location {
	switch {
	case phase < math.Pi/4 || phase > 7*math.Pi/4:
		return NearA
	case phase > 3*math.Pi/4 && phase < 5*math.Pi/4:
		return NearB
	default:
		return InTransit
	}
}

// NearApsis reports whether the phase is within HighlightTolerance of A or B.
func NearApsis(phase float64) bool {
	return math.Abs(phase) < HighlightTolerance ||
		math.Abs(phase-twoPi) < HighlightTolerance ||
		math.Abs(phase-math.Pi) < HighlightTolerance
}

// ApparentOffset is the sideways shift of a star on the celestial strip,
// clamped to ±maxOffset.
func ApparentOffset(parallax, phase, maxOffset float64) float64 {
	raw := parallax * CelestialGain * math.Cos(phase)
	return math.Max(-maxOffset, math.Min(maxOffset, raw))
}

// MaxOffset returns the clamp for a star on a strip of the given width.
// The far star gets a quarter of the near star's range.
func MaxOffset(id StarID, width float64) float64 {
	m := width * CelestialSpan
	if id == StarY {
		m /= 4
	}
	return m
}

// CelestialAngle converts a pixel offset around the base angle into degrees.
func CelestialAngle(offset, width float64) float64 {
	if width <= 0 {
		return CelestialBaseAngle
	}
	base := CelestialBaseAngle / 360 * width
	return (base + offset) / width * 360
}

// CelestialOffset is the strip offset of a star in f for a strip of width.
func CelestialOffset(f Frame, id StarID, width float64) float64 {
	return ApparentOffset(f.Stars[id].Parallax, f.Phase, MaxOffset(id, width))
}
