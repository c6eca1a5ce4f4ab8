package pixel

import "image/color"

// RGB565Model converts any [color.Color] to an [RGB565] color.
var RGB565Model color.Model = color.ModelFunc(rgb565Model)

// RGB565 represents a 16-bit 5-6-5 RGB color word, the native format of the
// SSD1351 display RAM.
type RGB565 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

// Color565 packs three 8-bit channels into an RGB565 color by truncating each
// channel to its target depth.
func Color565(r, g, b uint8) RGB565 {
	return RGB565{uint16(r&0xf8)<<8 | uint16(g&0xfc)<<3 | uint16(b)>>3}
}

// Encode packs a 24-bit 0xRRGGBB value into an RGB565 color.
//
// Each channel is rescaled to its target bit depth with rounding, so that
// Encode(0x000000).V == 0x0000 and Encode(0xFFFFFF).V == 0xFFFF. Bits above
// the low 24 are ignored.
func Encode(rgb uint32) RGB565 {
	var (
		r = (rgb >> 16) & 0xff
		g = (rgb >> 8) & 0xff
		b = rgb & 0xff
	)
	r = (r*31 + 127) / 255
	g = (g*63 + 127) / 255
	b = (b*31 + 127) / 255
	return RGB565{uint16(r<<11 | g<<5 | b)}
}

func (c RGB565) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	r = r & 0xF800
	g = (g & 0xFC00) >> 5
	b = (b & 0xF800) >> 11
	return RGB565{uint16(r | g | b)}
}
