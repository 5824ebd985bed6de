package sim

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultOverheadStars  = 150
	DefaultCelestialStars = 20
)

// BackgroundStar is a fixed star used for reference in either view.
// Overhead stars use Pos; celestial stars use Angle (degrees) and Row.
type BackgroundStar struct {
	Pos        r2.Vec
	Angle      float64
	Row        int
	Brightness float64
	Size       float64
}

// Backdrop is generated once and never changes afterwards.
type Backdrop struct {
	Seed      int64
	Overhead  []BackgroundStar
	Celestial []BackgroundStar
}

// NewBackdrop scatters overhead stars on a ring of radius 300-700 and spreads
// celestial stars evenly around the strip with ±5° jitter.
func NewBackdrop(seed int64, overhead, celestial int) Backdrop {
	rng := rand.New(rand.NewSource(seed))

	b := Backdrop{
		Seed:      seed,
		Overhead:  make([]BackgroundStar, 0, overhead),
		Celestial: make([]BackgroundStar, 0, celestial),
	}

	for i := 0; i < overhead; i++ {
		angle := rng.Float64() * twoPi
		dist := rng.Float64()*400 + 300
		b.Overhead = append(b.Overhead, BackgroundStar{
			Pos:        r2.Vec{X: math.Cos(angle) * dist, Y: math.Sin(angle) * dist},
			Brightness: rng.Float64()*0.6 + 0.3,
			Size:       rng.Float64()*1.5 + 0.5,
		})
	}

	if celestial > 0 {
		spacing := 360.0 / float64(celestial)
		for i := 0; i < celestial; i++ {
			b.Celestial = append(b.Celestial, BackgroundStar{
				Angle:      float64(i)*spacing + rng.Float64()*10 - 5,
				Row:        i%3 - 1,
				Brightness: rng.Float64()*0.8 + 0.3,
				Size:       rng.Float64()*2 + 1,
			})
		}
	}

	return b
}
