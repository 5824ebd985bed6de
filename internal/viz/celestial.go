package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/san-kum/parallax/internal/sim"
)

// TargetAngles returns the displayed angle, in degrees, of each star in f.
// Offsets are taken on the reference strip so the apparent shift keeps the
// same share of the sky whatever the terminal width.
func TargetAngles(f sim.Frame) [2]float64 {
	var out [2]float64
	for _, id := range sim.StarIDs {
		off := sim.CelestialOffset(f, id, sim.ReferenceStripWidth)
		out[id] = sim.CelestialAngle(off, sim.ReferenceStripWidth)
	}
	return out
}

// DrawCelestial renders the sky strip as seen from Earth with the two
// markers at angles (degrees).
func DrawCelestial(c *Canvas, angles [2]float64, bg sim.Backdrop, th Theme) {
	c.Clear()
	w, h := c.PixelSize()
	mid := h / 2
	belt := int(float64(h) * 0.35)

	c.SetPen(th.Faint)
	c.DrawDashedLine(0, mid-belt, w-1, mid-belt, 2, 2)
	c.DrawDashedLine(0, mid+belt, w-1, mid+belt, 2, 2)
	c.DrawDashedLine(0, mid, w-1, mid, 1, 3)

	rowGap := belt / 2
	if rowGap < 2 {
		rowGap = 2
	}
	for _, s := range bg.Celestial {
		if s.Brightness > 0.7 {
			c.SetPen(th.Text)
		} else {
			c.SetPen(th.Muted)
		}
		r := 0
		if s.Size >= 2 {
			r = 1
		}
		c.FillDisc(angleToX(s.Angle, w), mid+s.Row*rowGap, r)
	}

	c.SetPen(th.Muted)
	c.Label(0, 0, "background (fixed)", AlignLeft)
	c.Label(w/2, h-1, "<- watch X and Y shift ->", AlignCenter)

	for _, id := range sim.StarIDs {
		r := 2
		if id == sim.StarY {
			r = 1
		}
		x := angleToX(angles[id], w)
		c.SetPen(th.Star(id))
		c.FillDisc(x, mid, r)
		c.Label(x, mid-r-4, id.String(), AlignCenter)
	}
}

// angleToX maps an angle in degrees onto a strip of w sub-pixels.
func angleToX(deg float64, w int) int {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return int(math.Round(deg / 360 * float64(w-1)))
}

// MarkerSpring eases the celestial markers towards their target angles with
// a critically damped spring.
type MarkerSpring struct {
	spring harmonica.Spring
	pos    [2]float64
	vel    [2]float64
	primed bool
}

func NewMarkerSpring(fps int) *MarkerSpring {
	if fps <= 0 {
		fps = 60
	}
	return &MarkerSpring{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Update moves the markers one tick towards target and returns their
// positions. The first call jumps straight to target.
func (m *MarkerSpring) Update(target [2]float64) [2]float64 {
	if !m.primed {
		m.Snap(target)
		return m.pos
	}
	for i := range target {
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], target[i])
	}
	return m.pos
}

// Snap places the markers on target with no velocity.
func (m *MarkerSpring) Snap(target [2]float64) {
	m.pos = target
	m.vel = [2]float64{}
	m.primed = true
}

// Positions returns the current marker angles.
func (m *MarkerSpring) Positions() [2]float64 { return m.pos }
