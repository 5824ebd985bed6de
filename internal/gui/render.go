package gui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/viz"
)

const (
	sunRadius   = 15
	earthRadius = 8
	fontSize    = 16
	smallFont   = 12
)

// col converts a theme colour to a raylib colour.
func col(c lipgloss.Color) rl.Color {
	rgba := viz.RGBA(c)
	return rl.NewColor(rgba.R, rgba.G, rgba.B, rgba.A)
}

func vec(v r2.Vec) rl.Vector2 { return rl.NewVector2(float32(v.X), float32(v.Y)) }

// sceneProjector fits the overhead scene into the area left of the panel.
func sceneProjector() viz.Projector {
	return viz.FitOverhead(WindowWidth-panelWidth, WindowHeight-stripHeight)
}

// StripX maps a celestial angle in degrees onto the strip.
func StripX(deg float64, width int) float32 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return float32(deg / 360 * float64(width))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(0, 4, 40, 255))

	a.drawOverhead(sceneProjector())
	a.drawCelestial(WindowHeight-stripHeight, WindowWidth, stripHeight)
	a.drawPanel(WindowWidth-panelWidth, 0)
	if a.ShowHelp {
		a.drawHelp()
	}

	rl.EndDrawing()
}

func (a *App) drawOverhead(p viz.Projector) {
	th, f := a.Theme, a.Frame

	for _, s := range a.Backdrop.Overhead {
		c := rl.Fade(col(th.Text), float32(s.Brightness))
		rl.DrawCircleV(vec(p.Project(s.Pos)), float32(s.Size), c)
	}

	sun := vec(p.Project(r2.Vec{}))
	for _, id := range sim.StarIDs {
		star := vec(p.Project(f.Star(id).Pos))
		for _, from := range []r2.Vec{f.PointA(), f.PointB()} {
			rl.DrawLineV(vec(p.Project(from)), star, rl.Fade(col(th.Faint), 0.6))
		}
	}
	far := f.Star(sim.StarX).Pos
	if y := f.Star(sim.StarY).Pos; r2.Norm(y) > r2.Norm(far) {
		far = y
	}
	dashed(sun, vec(p.Project(far)), 6, 6, 1, col(th.Faint))

	rl.DrawCircleLines(int32(sun.X), int32(sun.Y), float32(p.Length(f.OrbitRadius)), col(th.Orbit))
	for i, e := range a.Trail {
		alpha := float32(i+1) / float32(len(a.Trail)+1)
		rl.DrawCircleV(vec(p.Project(e)), 2, rl.Fade(col(th.Earth), alpha*0.5))
	}

	rl.DrawCircleV(sun, float32(p.Length(sunRadius)), col(th.Sun))
	label(sun.X, sun.Y+float32(p.Length(sunRadius))+6, "Sun", fontSize, col(th.Text))

	for _, pt := range []struct {
		pos  r2.Vec
		name string
	}{{f.PointA(), "A"}, {f.PointB(), "B"}} {
		v := vec(p.Project(pt.pos))
		rl.DrawCircleV(v, 4, col(th.Text))
		label(v.X, v.Y+8, pt.name, fontSize, col(th.Text))
	}

	for _, id := range sim.StarIDs {
		a.drawParallaxArc(p, id)
	}

	earth := vec(p.Project(f.Earth))
	for _, id := range sim.StarIDs {
		star := vec(p.Project(f.Star(id).Pos))
		width, c := float32(1.5), rl.Fade(col(th.Earth), 0.8)
		if f.Highlight.Active {
			width = float32(2 + 3*f.Highlight.Intensity)
			c = col(th.Accent)
		}
		dashed(earth, star, 10, 6, width, c)
		arrowhead(earth, star, col(th.Star(id)))
	}

	rl.DrawCircleV(earth, float32(p.Length(earthRadius)), col(th.Earth))
	label(earth.X, earth.Y-24, "Earth ("+f.Location.String()+")", fontSize, col(th.Text))

	for _, id := range sim.StarIDs {
		s := f.Star(id)
		v := vec(p.Project(s.Pos))
		r := float32(8)
		if id == sim.StarY {
			r = 5
		}
		rl.DrawCircleV(v, r*1.8, rl.Fade(col(th.Star(id)), 0.25))
		rl.DrawCircleV(v, r, col(th.Star(id)))
		label(v.X, v.Y-r-20, fmt.Sprintf("%v %.1f pc", id, s.Distance), fontSize, col(th.Text))
	}
}

// drawParallaxArc marks the angle at a star between the Sun and point A.
func (a *App) drawParallaxArc(p viz.Projector, id sim.StarID) {
	f := a.Frame
	star := f.Star(id)
	toSun := r2.Sub(r2.Vec{}, star.Pos)
	toA := r2.Sub(f.PointA(), star.Pos)

	start := math.Atan2(toSun.Y, toSun.X)
	end := math.Atan2(toA.Y, toA.X)
	radius := p.Length(math.Min(r2.Norm(toSun)/3, 60))

	c := vec(p.Project(star.Pos))
	lo, hi := start*180/math.Pi, end*180/math.Pi
	if lo > hi {
		lo, hi = hi, lo
	}
	rl.DrawRingLines(c, float32(radius), float32(radius)+1, float32(lo), float32(hi), 24, col(a.Theme.Star(id)))

	mid := (start + end) / 2
	lx := c.X + float32((radius+25)*math.Cos(mid))
	ly := c.Y + float32((radius+25)*math.Sin(mid))
	rl.DrawText(fmt.Sprintf("p=%.3f\"", star.Parallax), int32(lx), int32(ly), smallFont, col(a.Theme.Star(id)))
}

func (a *App) drawCelestial(top, width, height int) {
	th := a.Theme
	rl.DrawRectangle(0, int32(top), int32(width), int32(height), rl.NewColor(0, 4, 40, 230))

	mid := float32(top) + float32(height)/2
	belt := float32(height) * 0.4
	rl.DrawRectangle(0, int32(mid-belt), int32(width), int32(2*belt), rl.Fade(rl.White, 0.03))
	dashed(rl.NewVector2(0, mid-belt), rl.NewVector2(float32(width), mid-belt), 5, 5, 1, col(th.Faint))
	dashed(rl.NewVector2(0, mid+belt), rl.NewVector2(float32(width), mid+belt), 5, 5, 1, col(th.Faint))
	dashed(rl.NewVector2(0, mid), rl.NewVector2(float32(width), mid), 2, 8, 1, col(th.Faint))

	for _, s := range a.Backdrop.Celestial {
		x := StripX(s.Angle, width)
		y := mid + float32(s.Row)*belt/2
		rl.DrawCircleV(rl.NewVector2(x, y), float32(s.Size), rl.Fade(rl.White, float32(s.Brightness)))
	}
	rl.DrawText("background (fixed)", 8, int32(top)+6, smallFont, col(th.Muted))
	hint := "<- watch X and Y shift ->"
	rl.DrawText(hint, int32(width)/2-rl.MeasureText(hint, smallFont)/2, int32(top+height)-18, smallFont, col(th.Earth))

	pos := a.markers.Positions()
	for _, id := range sim.StarIDs {
		r := float32(8)
		if id == sim.StarY {
			r = 5
		}
		v := rl.NewVector2(StripX(pos[id], width), mid)
		rl.DrawCircleV(v, r*1.8, rl.Fade(col(th.Star(id)), 0.25))
		rl.DrawCircleV(v, r, col(th.Star(id)))
		label(v.X, v.Y-r-18, id.String(), fontSize, col(th.Text))
	}
}

func (a *App) drawPanel(left, top int) {
	th, f := a.Theme, a.Frame
	x, y := int32(left)+16, int32(top)+16
	line := func(s string, c rl.Color) {
		rl.DrawText(s, x, y, fontSize, c)
		y += fontSize + 8
	}

	status := "PAUSED"
	if f.Playing {
		status = "PLAYING"
	}
	line("STELLAR PARALLAX", col(th.Accent))
	line(status, col(th.Text))
	line(fmt.Sprintf("earth   %s", f.Location), col(th.Earth))
	line(fmt.Sprintf("phase   %5.1f deg", f.Phase*180/math.Pi), col(th.Text))
	line(fmt.Sprintf("p X     %.3f\"", f.Star(sim.StarX).Parallax), col(th.StarX))
	line(fmt.Sprintf("p Y     %.3f\"", f.Star(sim.StarY).Parallax), col(th.StarY))
	y += 8

	for i, p := range params {
		c := col(th.Muted)
		marker := "  "
		if i == a.Selected {
			c, marker = col(th.Text), "> "
		}
		v := p.get(a.Sim)
		line(fmt.Sprintf("%s%s %.1f", marker, p.name, v), c)
		frac := float32((v - p.min) / (p.max - p.min))
		rl.DrawRectangle(x, y-6, 200, 4, col(th.Faint))
		rl.DrawRectangle(x, y-6, int32(200*frac), 4, c)
		y += 6
	}
	y += 8
	line("? for help", col(th.Muted))
}

func (a *App) drawHelp() {
	lines := []string{
		"space  play / pause",
		"r      reset to A",
		"tab    next setting",
		"up/dn  adjust setting",
		"t      next theme",
		"q      quit",
	}
	w, h := int32(320), int32(len(lines)*(fontSize+8)+24)
	x, y := int32(WindowWidth/2)-w/2, int32(WindowHeight/2)-h/2
	rl.DrawRectangle(x, y, w, h, rl.Fade(rl.Black, 0.85))
	rl.DrawRectangleLines(x, y, w, h, col(a.Theme.Border))
	for i, s := range lines {
		rl.DrawText(s, x+16, y+12+int32(i*(fontSize+8)), fontSize, col(a.Theme.Text))
	}
}

// label draws text centred on x.
func label(x, y float32, s string, size int32, c rl.Color) {
	rl.DrawText(s, int32(x)-rl.MeasureText(s, size)/2, int32(y), size, c)
}

// dashed draws a dashed segment from a to b.
func dashed(a, b rl.Vector2, on, off, width float32, c rl.Color) {
	d := rl.Vector2Subtract(b, a)
	length := rl.Vector2Length(d)
	if length == 0 {
		return
	}
	dir := rl.Vector2Scale(d, 1/length)
	for t := float32(0); t < length; t += on + off {
		end := t + on
		if end > length {
			end = length
		}
		rl.DrawLineEx(rl.Vector2Add(a, rl.Vector2Scale(dir, t)), rl.Vector2Add(a, rl.Vector2Scale(dir, end)), width, c)
	}
}

// arrowhead draws a head 30% of the way from a to b, pointing at b.
func arrowhead(a, b rl.Vector2, c rl.Color) {
	d := rl.Vector2Subtract(b, a)
	if rl.Vector2Length(d) == 0 {
		return
	}
	head := rl.Vector2Add(a, rl.Vector2Scale(d, 0.3))
	theta := math.Atan2(float64(d.Y), float64(d.X))
	for _, wing := range []float64{theta - math.Pi/6, theta + math.Pi/6} {
		w := rl.NewVector2(head.X-float32(10*math.Cos(wing)), head.Y-float32(10*math.Sin(wing)))
		rl.DrawLineEx(head, w, 2, c)
	}
}
