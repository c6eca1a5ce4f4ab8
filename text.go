package ssd1351

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/BeatGlow/ssd1351/pixel"
)

// Font is a column-oriented bitmap font. Columns returns one mask byte per
// glyph column with bit 0 as the top row.
type Font interface {
	Columns(ch rune) []byte
}

// SetFont replaces the bitmap font used by DrawText and DrawTextScaled. The
// default is the bundled 5x8 font.
func (d *Display) SetFont(f Font) {
	if f != nil {
		d.font = f
	}
}

// DrawText renders s into the frame buffer with the top left corner of the
// first glyph at (x, y). Glyph cells are opaque, unset bits clear the pixel
// to black. The text is not pushed to the panel; call Refresh or Flush.
// DrawText returns the x coordinate past the rendered text.
func (d *Display) DrawText(x, y int, s string, c color.Color) int {
	fg := pixel.RGB565Model.Convert(c).(pixel.RGB565)
	for _, ch := range s {
		for _, mask := range d.font.Columns(ch) {
			for row := 0; row < 8; row++ {
				if mask&1 != 0 {
					d.SetRGB565(x, y+row, fg)
				} else {
					d.SetRGB565(x, y+row, pixel.RGB565{})
				}
				mask >>= 1
			}
			x++
		}
	}
	return x
}

// DrawTextScaled is DrawText with every glyph bit expanded to a scale by
// scale block and space blank columns after each glyph.
func (d *Display) DrawTextScaled(x, y int, s string, c color.Color, scale, space int) int {
	if scale < 1 {
		scale = 1
	}
	if space < 0 {
		space = 0
	}
	fg := pixel.RGB565Model.Convert(c).(pixel.RGB565)
	for _, ch := range s {
		for _, mask := range d.font.Columns(ch) {
			py := y
			for row := 0; row < 8; row++ {
				set := mask&1 != 0
				for sy := 0; sy < scale; sy++ {
					px := x
					for sx := 0; sx < scale; sx++ {
						if set {
							d.SetRGB565(px, py, fg)
						} else {
							d.SetRGB565(px, py, pixel.RGB565{})
						}
						px++
					}
					py++
				}
				mask >>= 1
			}
			x += scale
		}
		x += space
	}
	return x
}

// DrawString renders s into the frame buffer using face, with the baseline
// starting at (x, y). Unlike DrawText the glyphs are blended over the
// existing buffer contents. The text is not pushed to the panel; call
// Refresh or Flush. DrawString returns the x coordinate past the rendered
// text.
func (d *Display) DrawString(x, y int, face font.Face, s string, c color.Color) int {
	drawer := font.Drawer{
		Dst:  d.RGB565Image,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(s)
	return drawer.Dot.X.Ceil()
}

// StringWidth returns the advance in pixels of s when rendered with face.
func StringWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// LoadFontFace parses TrueType font data and returns a face at the given
// point size, hinted for the panel's 72 DPI scale.
func LoadFontFace(ttf []byte, points float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("ssd1351: parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
