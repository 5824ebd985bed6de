package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Cell size of a rasterised braille glyph.
const (
	charW = 8
	charH = 16
)

// Palette returns the GIF palette for th. Index 0 is the background.
func Palette(th Theme) color.Palette {
	cols := []lipgloss.Color{th.Text, th.Muted, th.Faint, th.Sun, th.Earth, th.StarX, th.StarY, th.Orbit, th.Accent, th.Border}
	p := color.Palette{color.Black}
	for _, c := range cols {
		p = append(p, RGBA(c))
	}
	return p
}

// Rasterize draws the dots of the canvases, stacked top to bottom, into one
// paletted image. Text labels are not rasterised.
func Rasterize(th Theme, canvases ...*Canvas) *image.Paletted {
	imgW, imgH := 0, 0
	for _, c := range canvases {
		if c.Width*charW > imgW {
			imgW = c.Width * charW
		}
		imgH += c.Height * charH
	}
	pal := Palette(th)
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), pal)

	dotW, dotH := charW/2, charH/4
	top := 0
	for _, c := range canvases {
		for row := 0; row < c.Height; row++ {
			for col := 0; col < c.Width; col++ {
				pattern := int(c.Grid[row][col] - blank)
				if pattern <= 0 {
					continue
				}
				idx := uint8(pal.Index(RGBA(c.Colors[row][col])))
				if c.Colors[row][col] == "" {
					idx = 1
				}
				baseX, baseY := col*charW, top+row*charH
				for dy := 0; dy < 4; dy++ {
					for dx := 0; dx < 2; dx++ {
						if pattern&pixelMap[dy][dx] == 0 {
							continue
						}
						for py := 0; py < dotH; py++ {
							for px := 0; px < dotW; px++ {
								img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
							}
						}
					}
				}
			}
		}
		top += c.Height * charH
	}
	return img
}

// SaveGIF writes frames as a looping animation, delay in 100ths of a second.
// Frames whose size differs from the first (after a resize) are dropped.
func SaveGIF(path string, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	bounds := frames[0].Bounds()
	for _, frame := range frames {
		if frame.Bounds() != bounds {
			continue
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
