package pixel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestRGB565Image(t *testing.T) {
	testCases := []image.Point{
		image.Point{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(128, 96),
		image.Pt(128, 128),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := NewRGB565Image(test.X, test.Y)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}

			if v := i.ColorModel(); v != RGB565Model {
				it.Errorf("expected color model %T, got %T", RGB565Model, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := i.ColorModel().Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
							return
						}
					}
				}
			})

			it.Run("in-bounds-matching-model", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := RGB565Model.Convert(testRandomColor()).(RGB565)
						i.SetRGB565(x, y, c)
						if v := i.RGB565At(x, y); v != c {
							itt.Fatalf("pixel (%d,%d) is %#04x, expected %#04x", x, y, v.V, c.V)
							return
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y - 1; y < test.Y*2+1; y++ {
					for x := -test.X - 1; x < test.X*2+1; x++ {
						if (image.Point{X: x, Y: y}).In(i.Bounds()) {
							continue
						}
						i.Set(x, y, testRandomColor())
						if v := i.At(x, y); v != color.Transparent {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
							return
						}
						if v := i.RGB565At(x, y); v.V != 0 {
							itt.Fatalf("pixel (%d,%d) is %#04x, expected zero", x, y, v.V)
							return
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.ColorModel().Convert(c); i.At(x, y) != v {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						return
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.RGB565At(x, y); v.V != 0 {
						itt.Fatalf("pixel (%d,%d) is not black", x, y)
					}
				}
			})
		})
	}
}

func TestRGB565ImageFillRect(t *testing.T) {
	red := RGB565{0xF800}
	testCases := []struct {
		name string
		rect image.Rectangle
		want image.Rectangle
	}{
		{"interior", image.Rect(2, 3, 10, 9), image.Rect(2, 3, 10, 9)},
		{"clip-top-left", image.Rect(-4, -4, 4, 4), image.Rect(0, 0, 4, 4)},
		{"clip-bottom-right", image.Rect(12, 12, 20, 20), image.Rect(12, 12, 16, 16)},
		{"spanning", image.Rect(-8, -8, 24, 24), image.Rect(0, 0, 16, 16)},
		{"outside-right", image.Rect(16, 0, 20, 4), image.Rectangle{}},
		{"outside-above", image.Rect(0, -8, 4, -1), image.Rectangle{}},
	}
	for _, test := range testCases {
		t.Run(test.name, func(it *testing.T) {
			i := NewRGB565Image(16, 16)
			i.FillRect(test.rect, red)
			for y := 0; y < 16; y++ {
				for x := 0; x < 16; x++ {
					want := RGB565{}
					if (image.Point{X: x, Y: y}).In(test.want) {
						want = red
					}
					if v := i.RGB565At(x, y); v != want {
						it.Fatalf("pixel (%d,%d) is %#04x, expected %#04x", x, y, v.V, want.V)
						return
					}
				}
			}
		})
	}
}

func TestRGB565ImageClearRect(t *testing.T) {
	i := NewRGB565Image(8, 8)
	i.Fill(RGB565{0xFFFF})
	i.ClearRect(image.Rect(2, 2, 6, 6))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint16(0xFFFF)
			if (image.Point{X: x, Y: y}).In(image.Rect(2, 2, 6, 6)) {
				want = 0
			}
			if v := i.RGB565At(x, y); v.V != want {
				t.Fatalf("pixel (%d,%d) is %#04x, expected %#04x", x, y, v.V, want)
				return
			}
		}
	}
}

func TestRGB565ImageDump(t *testing.T) {
	i := NewRGB565Image(4, 3)

	t.Run("cleared", func(it *testing.T) {
		rows := i.Dump()
		if len(rows) != 3 {
			it.Fatalf("expected 3 rows, got %d", len(rows))
		}
		for y, row := range rows {
			if row != "...." {
				it.Errorf("row %d is %q, expected %q", y, row, "....")
			}
		}
	})

	t.Run("pixels", func(it *testing.T) {
		i.SetRGB565(3, 0, RGB565{0xF800})
		i.SetRGB565(1, 1, RGB565{0x0001})
		want := []string{"...X", ".X..", "...."}
		for y, row := range i.Dump() {
			if row != want[y] {
				it.Errorf("row %d is %q, expected %q", y, row, want[y])
			}
		}
	})

	t.Run("restartable", func(it *testing.T) {
		first := i.Dump()
		second := i.Dump()
		for y := range first {
			if first[y] != second[y] {
				it.Errorf("row %d changed between dumps: %q, %q", y, first[y], second[y])
			}
		}
	})
}

func TestRGB565ImageScenario(t *testing.T) {
	// Full-screen red fill on a 128x128 buffer.
	i := NewRGB565Image(128, 128)
	i.FillRect(image.Rect(0, 0, 128, 128), Encode(0xFF0000))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			if v := i.RGB565At(x, y); v.V != 0xF800 {
				t.Fatalf("pixel (%d,%d) is %#04x, expected %#04x", x, y, v.V, 0xF800)
				return
			}
		}
	}

	// The wire serialization is high byte first.
	if i.Pix[0] != 0xF8 || i.Pix[1] != 0x00 {
		t.Errorf("expected leading bytes f8 00, got %02x %02x", i.Pix[0], i.Pix[1])
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
