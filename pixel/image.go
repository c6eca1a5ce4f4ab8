package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"strings"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values backing an image.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

// RGB565Image is a 16-bits per pixel 5-6-5-bit RGB image, stored in the
// SSD1351 wire order (high byte first).
type RGB565Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewRGB565Image(w, h int) *RGB565Image {
	return &RGB565Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  binary.BigEndian,
	}
}

func (p *RGB565Image) ColorModel() color.Model {
	return RGB565Model
}

func (p *RGB565Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	return RGB565{p.Order.Uint16(p.Pix[x*2+y*p.Stride:])}
}

// RGB565At is like At without the color interface indirection. Out of range
// reads return the zero color word.
func (p *RGB565Image) RGB565At(x, y int) RGB565 {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return RGB565{}
	}

	return RGB565{p.Order.Uint16(p.Pix[x*2+y*p.Stride:])}
}

func (p *RGB565Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	v := rgb565Model(c).(RGB565).V
	p.Order.PutUint16(p.Pix[x*2+y*p.Stride:], v)
}

// SetRGB565 is like Set without the color model conversion. Out of range
// writes are ignored.
func (p *RGB565Image) SetRGB565(x, y int, c RGB565) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	p.Order.PutUint16(p.Pix[x*2+y*p.Stride:], c.V)
}

func (p *RGB565Image) Fill(c color.Color) {
	value := rgb565Model(c).(RGB565).V
	bytes := make([]byte, 2)
	p.Order.PutUint16(bytes, value)
	for i, l := 0, len(p.Pix); i < l; i += 2 {
		copy(p.Pix[i:], bytes)
	}
}

// FillRect fills the rectangle r with the color c.
//
// The rectangle is clipped to the image bounds, symmetric at all four edges;
// a rectangle entirely outside the bounds is a no-op.
func (p *RGB565Image) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return
	}

	value := rgb565Model(c).(RGB565).V
	row := make([]byte, r.Dx()*2)
	for i := 0; i < len(row); i += 2 {
		p.Order.PutUint16(row[i:], value)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(p.Pix[r.Min.X*2+y*p.Stride:], row)
	}
}

// ClearRect sets every pixel in the rectangle r to zero, with the same
// clipping as FillRect.
func (p *RGB565Image) ClearRect(r image.Rectangle) {
	p.FillRect(r, RGB565{})
}

// Dump renders the buffer as one string per row, 'X' for a nonzero pixel
// word and '.' for zero. It does not modify the buffer.
func (p *RGB565Image) Dump() []string {
	var (
		rows = make([]string, 0, p.Rect.Dy())
		row  strings.Builder
	)
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		row.Reset()
		for x := p.Rect.Min.X; x < p.Rect.Max.X; x++ {
			if p.Order.Uint16(p.Pix[x*2+y*p.Stride:]) != 0 {
				row.WriteByte('X')
			} else {
				row.WriteByte('.')
			}
		}
		rows = append(rows, row.String())
	}
	return rows
}

// Interface checks.
var (
	_ Image = (*RGB565Image)(nil)
)
