package export

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/viz"
)

func wellFormed(t *testing.T, svg string) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("invalid svg: %v\n%s", err, svg)
		}
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.SetPen(lipgloss.Color("#ffd700"))
	c.Set(0, 0)
	c.Set(1, 0)
	c.SetPen(lipgloss.Color("#4fc3f7"))
	c.Set(6, 7)
	c.Label(0, 4, "A<B", viz.AlignLeft)

	svg := CanvasToSVG(c, 10)
	wellFormed(t, svg)

	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 dots, got %d", n)
	}
	for _, want := range []string{`fill="#ffd700"`, `fill="#4fc3f7"`, "A&lt;B", `width="80"`, `height="80"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}

	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestFrameToSVG(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	svg := FrameToSVG(s.Frame(), viz.ThemeNight, 500, 510)
	wellFormed(t, svg)

	for _, want := range []string{"Earth (near A)", "X 2.0 pc", "Y 20.0 pc", `p=0.500"`, string(viz.ThemeNight.Accent)} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}

	s.SetPlaying(true)
	for i := 0; i < 80; i++ {
		s.Step()
	}
	svg = FrameToSVG(s.Frame(), viz.ThemeNight, 500, 510)
	if strings.Contains(svg, string(viz.ThemeNight.Accent)) {
		t.Error("faded highlight should not use the accent colour")
	}
	if !strings.Contains(svg, "in transit") {
		t.Error("expected Earth in transit")
	}
}

func TestTraceToSVG(t *testing.T) {
	svg := TraceToSVG([][]float64{{1, 2, 3, 2}, {0, 0}}, []string{"#ff0000"}, 200, 100)
	wellFormed(t, svg)
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected two paths:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) || !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("expected given colour then the default")
	}

	if TraceToSVG([][]float64{{1}}, nil, 10, 10) != "" {
		t.Error("single sample should give empty output")
	}
}
