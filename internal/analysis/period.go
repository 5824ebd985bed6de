package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/parallax/internal/sim"
)

var (
	ErrShortTrace = errors.New("trace too short")
	ErrFlatTrace  = errors.New("trace has no variation")
)

// minSamples is the shortest trace DominantPeriod accepts.
const minSamples = 16

// OrbitPeriod is the number of frames per orbit at a speed multiplier.
func OrbitPeriod(speed float64) float64 {
	return 2 * math.Pi / (sim.PhaseIncrement * speed)
}

// DominantPeriod returns the period, in samples, of the strongest component
// of data. The whole trace is used, so a single recorded orbit resolves to
// bin 1. The mean is removed and the peak bin refined by parabolic
// interpolation.
func DominantPeriod(data []float64) (float64, error) {
	n := len(data)
	if n < minSamples {
		return 0, ErrShortTrace
	}
	trace := make([]float64, n)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)
	for i, v := range data {
		trace[i] = v - mean
	}

	ps := PowerSpectrum(trace)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] < 1e-9 {
		return 0, ErrFlatTrace
	}

	bin := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			bin += 0.5 * (a - c) / d
		}
	}
	return float64(n) / bin, nil
}
