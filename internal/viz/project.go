package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SystemOffset shifts the solar system down the overhead view so both target
// stars fit above the orbit.
var SystemOffset = r2.Vec{Y: 80}

// World extents of the overhead scene after SystemOffset.
const (
	sceneTop       = -310.0
	sceneBottom    = 200.0
	sceneHalfWidth = 250.0
)

// Projector maps world units to canvas sub-pixels. World y grows downwards,
// as on the canvas.
type Projector struct {
	Scale  float64
	Origin r2.Vec
}

// FitOverhead returns the projector that fits the overhead scene into a
// canvas of cw x ch sub-pixels.
func FitOverhead(cw, ch int) Projector {
	scale := math.Min(float64(cw)/(2*sceneHalfWidth), float64(ch)/(sceneBottom-sceneTop))
	top := (float64(ch) - scale*(sceneBottom-sceneTop)) / 2
	return Projector{
		Scale:  scale,
		Origin: r2.Vec{X: float64(cw) / 2, Y: top - scale*sceneTop},
	}
}

// Project returns the sub-pixel position of world point v.
func (p Projector) Project(v r2.Vec) r2.Vec {
	return r2.Add(p.Origin, r2.Scale(p.Scale, r2.Add(v, SystemOffset)))
}

// Point is Project rounded to whole sub-pixels.
func (p Projector) Point(v r2.Vec) (int, int) {
	s := p.Project(v)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

// Length scales a world distance to sub-pixels.
func (p Projector) Length(l float64) float64 { return l * p.Scale }

// Radius scales a world radius to whole sub-pixels, never below min.
func (p Projector) Radius(l float64, min int) int {
	r := int(math.Round(p.Length(l)))
	if r < min {
		return min
	}
	return r
}
