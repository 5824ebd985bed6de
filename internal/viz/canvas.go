package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Align positions a text label relative to its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Canvas is a braille pixel canvas with one colour per cell. Drawing uses the
// current pen; the last pen to touch a cell wins. Text labels sit on top of
// the dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
	Text          [][]rune
	pen           lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
		Text:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
		c.Text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in sub-pixels.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

// SetPen sets the colour used by later drawing calls.
func (c *Canvas) SetPen(col lipgloss.Color) { c.pen = col }

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if c.pen != "" {
		c.Colors[row][col] = c.pen
	}
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	mask := ^rune(pixelMap[y%4][x%2])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Clear resets dots, colours and labels.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
			c.Text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.DrawDashedLine(x0, y0, x1, y1, 1, 0)
}

// DrawDashedLine draws on pixels followed by off gaps along the line.
func (c *Canvas) DrawDashedLine(x0, y0, x1, y1, on, off int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	period := on + off

	for i := 0; ; i++ {
		if off == 0 || i%period < on {
			c.Set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawThickLine draws width parallel lines centred on the segment.
func (c *Canvas) DrawThickLine(x0, y0, x1, y1, width, on, off int) {
	if width <= 1 {
		c.DrawDashedLine(x0, y0, x1, y1, on, off)
		return
	}
	// Offset along the axis the line crosses most.
	horizontal := absInt(x1-x0) >= absInt(y1-y0)
	for k := -(width / 2); k < width-width/2; k++ {
		if horizontal {
			c.DrawDashedLine(x0, y0+k, x1, y1+k, on, off)
		} else {
			c.DrawDashedLine(x0+k, y0, x1+k, y1, on, off)
		}
	}
}

// DrawArc draws the arc of radius r around (cx, cy) from start to end
// (radians, screen orientation). Every dash-th sample is skipped when dash > 0.
func (c *Canvas) DrawArc(cx, cy int, r, start, end float64, dash int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	if end < start {
		start, end = end, start
	}
	steps := int(math.Ceil((end - start) * r * 2))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		if dash > 0 && (i/dash)%2 == 1 {
			continue
		}
		a := start + (end-start)*float64(i)/float64(steps)
		c.Set(cx+int(math.Round(r*math.Cos(a))), cy+int(math.Round(r*math.Sin(a))))
	}
}

// DrawCircle draws a full circle outline.
func (c *Canvas) DrawCircle(cx, cy int, r float64, dash int) {
	c.DrawArc(cx, cy, r, 0, 2*math.Pi, dash)
}

// FillDisc fills a disc of radius r.
func (c *Canvas) FillDisc(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// Label writes text anchored at sub-pixel (x, y). Characters outside the
// canvas are dropped.
func (c *Canvas) Label(x, y int, s string, align Align) {
	runes := []rune(s)
	col, row := floorDiv(x, 2), floorDiv(y, 4)
	switch align {
	case AlignCenter:
		col -= len(runes) / 2
	case AlignRight:
		col -= len(runes)
	}
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range runes {
		cc := col + i
		if cc < 0 || cc >= c.Width {
			continue
		}
		c.Text[row][cc] = r
		if c.pen != "" {
			c.Colors[row][cc] = c.pen
		}
	}
}

// Cell returns what is shown at a cell and its colour.
func (c *Canvas) Cell(col, row int) (rune, lipgloss.Color) {
	if t := c.Text[row][col]; t != 0 {
		return t, c.Colors[row][col]
	}
	return c.Grid[row][col], c.Colors[row][col]
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			r, _ := c.Cell(col, row)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the canvas with lipgloss colours, one style per run of
// same-coloured cells.
func (c *Canvas) Render() string {
	var b strings.Builder
	var run strings.Builder
	for row := range c.Grid {
		var cur lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(cur).Render(run.String()))
			}
			run.Reset()
		}
		for col := range c.Grid[row] {
			r, color := c.Cell(col, row)
			if r == blank {
				color = ""
			}
			if color != cur {
				flush()
				cur = color
			}
			run.WriteRune(r)
		}
		flush()
		if row < c.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// floorDiv divides rounding toward negative infinity, so sub-pixels just
// off the top or left edge land outside the canvas.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
