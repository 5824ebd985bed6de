package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/parallax/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	sunRadius     = 15.0
	earthRadius   = 8.0
	arcMaxRadius  = 60.0
	arrowFraction = 0.3
	arrowSize     = 3.0
)

// DrawOverhead renders the top-down view of f onto c. Layers are drawn back
// to front so labels and the live sightlines end up on top.
func DrawOverhead(c *Canvas, p Projector, f sim.Frame, bg sim.Backdrop, th Theme) {
	c.Clear()
	drawOverheadBackdrop(c, p, bg, th)
	drawAlignment(c, p, f, th)
	for _, id := range sim.StarIDs {
		drawParallaxArc(c, p, f, id, th)
	}
	drawBaselines(c, p, f, th)
	drawSun(c, p, th)
	drawOrbit(c, p, f, th)
	drawEarth(c, p, f, th)
	for _, id := range sim.StarIDs {
		drawStar(c, p, f.Star(id), th)
	}
	for _, id := range sim.StarIDs {
		drawSightline(c, p, f, id, th)
	}
}

func drawOverheadBackdrop(c *Canvas, p Projector, bg sim.Backdrop, th Theme) {
	for _, s := range bg.Overhead {
		if s.Brightness >= 0.6 {
			c.SetPen(th.Muted)
		} else {
			c.SetPen(th.Faint)
		}
		x, y := p.Point(s.Pos)
		c.Set(x, y)
		if s.Size >= 1.5 {
			c.Set(x+1, y)
		}
	}
}

// drawAlignment joins the Sun and both stars, which share one line of sight
// in the default layout.
func drawAlignment(c *Canvas, p Projector, f sim.Frame, th Theme) {
	c.SetPen(th.Faint)
	sx, sy := p.Point(r2.Vec{})
	far := f.Star(sim.StarX).Pos
	if y := f.Star(sim.StarY).Pos; r2.Norm(y) > r2.Norm(far) {
		far = y
	}
	x, y := p.Point(far)
	c.DrawDashedLine(sx, sy, x, y, 2, 2)
}

// drawParallaxArc marks the angle at a star between the Sun and point A and
// labels it with the star's parallax.
func drawParallaxArc(c *Canvas, p Projector, f sim.Frame, id sim.StarID, th Theme) {
	star := f.Star(id)
	toSun := r2.Sub(r2.Vec{}, star.Pos)
	toA := r2.Sub(f.PointA(), star.Pos)

	start := math.Atan2(toSun.Y, toSun.X)
	sweep := sim.StellarParallaxAngle(star.Pos, r2.Vec{}, f.PointA())
	if angleBetween(start, math.Atan2(toA.Y, toA.X)) < 0 {
		sweep = -sweep
	}
	radius := math.Min(r2.Norm(toSun)/3, arcMaxRadius)

	c.SetPen(th.Star(id))
	cx, cy := p.Point(star.Pos)
	c.DrawArc(cx, cy, p.Length(radius), start, start+sweep, 0)

	mid := start + sweep/2
	lx := cx + int(math.Round(p.Length(radius+25)*math.Cos(mid)))
	ly := cy + int(math.Round(p.Length(radius+25)*math.Sin(mid)))
	c.Label(lx, ly, fmt.Sprintf("p=%.3f\"", star.Parallax), AlignLeft)
}

// drawBaselines draws the faint lines of sight from A and B to each star.
func drawBaselines(c *Canvas, p Projector, f sim.Frame, th Theme) {
	c.SetPen(th.Faint)
	ax, ay := p.Point(f.PointA())
	bx, by := p.Point(f.PointB())
	for _, id := range sim.StarIDs {
		x, y := p.Point(f.Star(id).Pos)
		c.DrawDashedLine(ax, ay, x, y, 1, 2)
		c.DrawDashedLine(bx, by, x, y, 1, 2)
	}
}

func drawSun(c *Canvas, p Projector, th Theme) {
	c.SetPen(th.Sun)
	x, y := p.Point(r2.Vec{})
	r := p.Radius(sunRadius, 1)
	c.FillDisc(x, y, r)
	c.Label(x, y+r+4, "Sun", AlignCenter)
}

func drawOrbit(c *Canvas, p Projector, f sim.Frame, th Theme) {
	c.SetPen(th.Orbit)
	x, y := p.Point(r2.Vec{})
	c.DrawCircle(x, y, p.Length(f.OrbitRadius), 3)

	c.SetPen(th.Text)
	ax, ay := p.Point(f.PointA())
	c.FillDisc(ax, ay, 1)
	c.Label(ax+4, ay, "A", AlignLeft)
	bx, by := p.Point(f.PointB())
	c.FillDisc(bx, by, 1)
	c.Label(bx-3, by, "B", AlignRight)
}

func drawEarth(c *Canvas, p Projector, f sim.Frame, th Theme) {
	c.SetPen(th.Earth)
	x, y := p.Point(f.Earth)
	c.FillDisc(x, y, p.Radius(earthRadius, 1))
	c.Label(x, y-6, "Earth ("+f.Location.String()+")", AlignCenter)
}

func drawStar(c *Canvas, p Projector, s sim.Star, th Theme) {
	c.SetPen(th.Star(s.ID))
	x, y := p.Point(s.Pos)
	r := 2
	if s.ID == sim.StarY {
		r = 1
	}
	c.FillDisc(x, y, r)
	c.Label(x, y-r-4, fmt.Sprintf("%v %.1f pc", s.ID, s.Distance), AlignCenter)
}

// drawSightline draws the current line of sight from Earth to a star. It is
// thicker and switches to the accent colour while the highlight is active.
func drawSightline(c *Canvas, p Projector, f sim.Frame, id sim.StarID, th Theme) {
	ex, ey := p.Point(f.Earth)
	sx, sy := p.Point(f.Star(id).Pos)

	width := 1
	c.SetPen(th.Earth)
	if f.Highlight.Active {
		width = 1 + int(math.Round(f.Highlight.Intensity*2))
		c.SetPen(th.Accent)
	}
	c.DrawThickLine(ex, ey, sx, sy, width, 3, 2)

	c.SetPen(th.Star(id))
	drawArrowhead(c, ex, ey, sx, sy)
}

// drawArrowhead puts a head 30% of the way along the segment, pointing at
// its end.
func drawArrowhead(c *Canvas, x0, y0, x1, y1 int) {
	dx, dy := float64(x1-x0), float64(y1-y0)
	if dx == 0 && dy == 0 {
		return
	}
	hx := float64(x0) + dx*arrowFraction
	hy := float64(y0) + dy*arrowFraction
	theta := math.Atan2(dy, dx)
	for _, wing := range []float64{theta - math.Pi/6, theta + math.Pi/6} {
		wx := hx - arrowSize*math.Cos(wing)
		wy := hy - arrowSize*math.Sin(wing)
		c.DrawLine(int(math.Round(hx)), int(math.Round(hy)), int(math.Round(wx)), int(math.Round(wy)))
	}
}

// angleBetween returns b-a folded into (-π, π].
func angleBetween(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
