package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/parallax/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

func defaultFrame(t *testing.T) sim.Frame {
	t.Helper()
	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s.Frame()
}

func TestFitOverhead_KeepsSceneInside(t *testing.T) {
	for _, size := range [][2]int{{96, 80}, {200, 60}, {48, 120}} {
		p := FitOverhead(size[0], size[1])
		f := sim.DefaultConfig()
		for _, v := range []r2.Vec{{}, f.PositionX, f.PositionY, {X: 100}, {X: -100}, {Y: 100}} {
			x, y := p.Point(v)
			if x < 0 || x >= size[0] || y < 0 || y >= size[1] {
				t.Errorf("%v: %v projects outside at (%d,%d)", size, v, x, y)
			}
		}
	}
}

func TestProjector_Orientation(t *testing.T) {
	p := FitOverhead(96, 80)
	_, sunY := p.Point(r2.Vec{})
	_, xY := p.Point(r2.Vec{Y: -200})
	_, yY := p.Point(r2.Vec{Y: -350})
	if !(yY < xY && xY < sunY) {
		t.Errorf("expected Y above X above the Sun, got %d %d %d", yY, xY, sunY)
	}
	ax, _ := p.Point(r2.Vec{X: 100})
	bx, _ := p.Point(r2.Vec{X: -100})
	if ax <= bx {
		t.Errorf("A should be right of B, got %d <= %d", ax, bx)
	}
	if got := p.Radius(0.001, 1); got != 1 {
		t.Errorf("Radius should respect its minimum, got %d", got)
	}
}

func TestDrawOverhead_Labels(t *testing.T) {
	c := NewCanvas(48, 20)
	pw, ph := c.PixelSize()
	DrawOverhead(c, FitOverhead(pw, ph), defaultFrame(t), sim.NewBackdrop(1, 150, 20), ThemeNight)

	out := c.String()
	for _, want := range []string{"Sun", "X 2.0 pc", "Y 20.0 pc", `p=0.500"`, "near A"} {
		if !strings.Contains(out, want) {
			t.Errorf("overhead view missing %q:\n%s", want, out)
		}
	}
}

func hasColour(c *Canvas, col string) bool {
	for row := range c.Grid {
		for x := range c.Grid[row] {
			if string(c.Colors[row][x]) == col {
				return true
			}
		}
	}
	return false
}

func TestDrawOverhead_Highlight(t *testing.T) {
	c := NewCanvas(48, 20)
	pw, ph := c.PixelSize()
	p := FitOverhead(pw, ph)
	f := defaultFrame(t)

	DrawOverhead(c, p, f, sim.Backdrop{}, ThemeNight)
	if !hasColour(c, string(ThemeNight.Accent)) {
		t.Error("highlighted sightlines should use the accent colour")
	}

	f.Highlight = sim.Highlight{}
	DrawOverhead(c, p, f, sim.Backdrop{}, ThemeNight)
	if hasColour(c, string(ThemeNight.Accent)) {
		t.Error("accent colour drawn without a highlight")
	}
}

func TestTargetAngles(t *testing.T) {
	f := defaultFrame(t)
	got := TargetAngles(f)
	if want := 180 + 25.0/800*360; math.Abs(got[sim.StarX]-want) > 1e-9 {
		t.Errorf("X at %v, want %v", got[sim.StarX], want)
	}
	if want := 180 + 2.5/800*360; math.Abs(got[sim.StarY]-want) > 1e-9 {
		t.Errorf("Y at %v, want %v", got[sim.StarY], want)
	}

	// Half an orbit later the shift reverses.
	f.Phase = math.Pi
	got = TargetAngles(f)
	if want := 180 - 25.0/800*360; math.Abs(got[sim.StarX]-want) > 1e-9 {
		t.Errorf("X at B %v, want %v", got[sim.StarX], want)
	}
}

func TestDrawCelestial(t *testing.T) {
	c := NewCanvas(90, 6)
	DrawCelestial(c, TargetAngles(defaultFrame(t)), sim.NewBackdrop(3, 0, 20), ThemeNight)

	out := c.String()
	for _, want := range []string{"background (fixed)", "watch X and Y shift", "X", "Y"} {
		if !strings.Contains(out, want) {
			t.Errorf("celestial view missing %q", want)
		}
	}
	if !hasColour(c, string(ThemeNight.StarX)) || !hasColour(c, string(ThemeNight.StarY)) {
		t.Error("expected both star markers")
	}
}

func TestAngleToX(t *testing.T) {
	tests := []struct {
		deg  float64
		want int
	}{
		{0, 0},
		{180, 180},
		{360, 0},
		{-90, 270},
		{450, 90},
	}
	for _, tt := range tests {
		if got := angleToX(tt.deg, 361); got != tt.want {
			t.Errorf("angleToX(%v) = %d, want %d", tt.deg, got, tt.want)
		}
	}
}

func TestMarkerSpring(t *testing.T) {
	m := NewMarkerSpring(60)
	start := [2]float64{180, 180}
	if got := m.Update(start); got != start {
		t.Fatalf("first update should snap, got %v", got)
	}

	target := [2]float64{190, 181}
	first := m.Update(target)
	if first[0] <= 180 || first[0] >= 190 {
		t.Errorf("spring should move part way, got %v", first[0])
	}
	for i := 0; i < 300; i++ {
		m.Update(target)
	}
	got := m.Positions()
	if math.Abs(got[0]-190) > 1e-3 || math.Abs(got[1]-181) > 1e-3 {
		t.Errorf("spring did not settle, got %v", got)
	}

	m.Snap(start)
	if m.Positions() != start {
		t.Error("snap should jump to target")
	}
}
