package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/parallax/internal/sim"
	"github.com/san-kum/parallax/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

const background = "#0a0a0a"

// Braille dot-to-bit mapping
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasToSVG converts a Braille canvas to SVG format, one group per colour.
// Text labels are written as SVG text.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	dots := make(map[lipgloss.Color][]string)
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 || canvas.Text[row][col] != 0 {
				continue
			}
			pattern := int(r - 0x2800)
			color := canvas.Colors[row][col]
			if color == "" {
				color = "#ffffff"
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						dots[color] = append(dots[color], fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	colors := make([]string, 0, len(dots))
	for c := range dots {
		colors = append(colors, string(c))
	}
	sort.Strings(colors)
	for _, c := range colors {
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", c)
		for _, d := range dots[lipgloss.Color(c)] {
			sb.WriteString(d + "\n")
		}
		sb.WriteString("</g>\n")
	}

	writeLabels(&sb, canvas, scale)
	sb.WriteString("</svg>")
	return sb.String()
}

// writeLabels emits each run of label text on a row as one text element.
func writeLabels(sb *strings.Builder, canvas *viz.Canvas, scale float64) {
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			if canvas.Text[row][col] == 0 {
				continue
			}
			start := col
			var run []rune
			for col < canvas.Width && canvas.Text[row][col] != 0 {
				run = append(run, canvas.Text[row][col])
				col++
			}
			color := canvas.Colors[row][start]
			if color == "" {
				color = "#ffffff"
			}
			fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="%.1f">%s</text>
`, float64(start)*scale*2, float64(row+1)*scale*4-scale, color, scale*3.2, escape(string(run)))
		}
	}
}

// FrameToSVG draws the overhead view of f as vector shapes in world units,
// without the braille approximation.
func FrameToSVG(f sim.Frame, th viz.Theme, width, height int) string {
	p := viz.FitOverhead(width, height)
	pt := func(v r2.Vec) (float64, float64) {
		s := p.Project(v)
		return s.X, s.Y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	sx, sy := pt(r2.Vec{})
	ax, ay := pt(f.PointA())
	bx, by := pt(f.PointB())
	ex, ey := pt(f.Earth)

	// Baselines from A and B.
	for _, id := range sim.StarIDs {
		x, y := pt(f.Star(id).Pos)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="3 3"/>
`, ax, ay, x, y, th.Faint)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-dasharray="3 3"/>
`, bx, by, x, y, th.Faint)
	}

	// Parallax arcs.
	for _, id := range sim.StarIDs {
		st := f.Star(id)
		cx, cy := pt(st.Pos)
		toSun := r2.Sub(r2.Vec{}, st.Pos)
		toA := r2.Sub(f.PointA(), st.Pos)
		r := p.Length(math.Min(r2.Norm(toSun)/3, 60))
		a0 := math.Atan2(toSun.Y, toSun.X)
		a1 := math.Atan2(toA.Y, toA.X)
		sweep := 0
		if math.Sin(a1-a0) > 0 {
			sweep = 1
		}
		fmt.Fprintf(&sb, `<path d="M%.1f,%.1f A%.1f,%.1f 0 0 %d %.1f,%.1f" fill="none" stroke="%s"/>
`, cx+r*math.Cos(a0), cy+r*math.Sin(a0), r, r, sweep, cx+r*math.Cos(a1), cy+r*math.Sin(a1), th.Star(id))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="11">p=%.3f"</text>
`, cx+r+6, cy+r, th.Star(id), st.Parallax)
	}

	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-dasharray="8 4"/>
`, sx, sy, p.Length(f.OrbitRadius), th.Orbit)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, sx, sy, p.Length(15), th.Sun)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/><text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12">A</text>
`, ax, ay, th.Text, ax+6, ay+4, th.Text)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/><text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="end">B</text>
`, bx, by, th.Text, bx-6, by+4, th.Text)

	// Current sightlines.
	stroke := 1.0
	lineColor := th.Earth
	if f.Highlight.Active {
		stroke = 2 + f.Highlight.Intensity*3
		lineColor = th.Accent
	}
	for _, id := range sim.StarIDs {
		x, y := pt(f.Star(id).Pos)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f" stroke-dasharray="6 3"/>
`, ex, ey, x, y, lineColor, stroke)
	}

	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="middle">Earth (%s)</text>
`, ex, ey, p.Length(8), th.Earth, ex, ey-p.Length(18), th.Earth, f.Location)

	for _, id := range sim.StarIDs {
		st := f.Star(id)
		x, y := pt(st.Pos)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="middle">%v %.1f pc</text>
`, x, y, th.Star(id), x, y-10, th.Star(id), id, st.Distance)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG plots one or more series against their sample index, each in
// its own colour.
func TraceToSVG(series [][]float64, colors []string, width, height int) string {
	n := 0
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if len(s) > n {
			n = len(s)
		}
		for _, v := range s {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if n < 2 {
		return ""
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	for i, s := range series {
		if len(s) < 2 {
			continue
		}
		color := "#00ff00"
		if i < len(colors) {
			color = colors[i]
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j, v := range s {
			x := float64(j) / float64(n-1) * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}
