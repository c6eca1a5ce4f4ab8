// Package ssd1351 implements a driver for Solomon Systech SSD1351 based
// color OLED displays connected over 4-wire SPI, such as the common 128x128
// and 128x96 breakout boards.
package ssd1351

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/ssd1351/font5x8"
	"github.com/BeatGlow/ssd1351/pixel"
)

const (
	defaultWidth  = 128
	defaultHeight = 128
	maxWidth      = 128
	maxHeight     = 128
)

// Commands (from the SSD1351 datasheet).
const (
	cmdSetColumn      = 0x15
	cmdWriteRAM       = 0x5C
	cmdReadRAM        = 0x5D
	cmdSetRow         = 0x75
	cmdHorizScroll    = 0x96
	cmdStopScroll     = 0x9E
	cmdStartScroll    = 0x9F
	cmdSetRemap       = 0xA0
	cmdStartLine      = 0xA1
	cmdDisplayOffset  = 0xA2
	cmdDisplayAllOff  = 0xA4
	cmdDisplayAllOn   = 0xA5
	cmdNormalDisplay  = 0xA6
	cmdInvertDisplay  = 0xA7
	cmdFunctionSelect = 0xAB
	cmdDisplayOff     = 0xAE
	cmdDisplayOn      = 0xAF
	cmdPrecharge      = 0xB1
	cmdDisplayEnhance = 0xB2
	cmdClockDiv       = 0xB3
	cmdSetVSL         = 0xB4
	cmdSetGPIO        = 0xB5
	cmdPrecharge2     = 0xB6
	cmdSetGray        = 0xB8
	cmdUseLUT         = 0xB9
	cmdPrechargeLevel = 0xBB
	cmdVCOMH          = 0xBE
	cmdContrastABC    = 0xC1
	cmdContrastMaster = 0xC7
	cmdMuxRatio       = 0xCA
	cmdCommandLock    = 0xFD
)

// flushBatchSize bounds the staging buffer handed to the connection per
// write. This is independent of the bus transfer limit, which the connection
// applies on top.
const flushBatchSize = 1024

// Display errors.
var (
	ErrBounds        = errors.New("ssd1351: unsupported panel size")
	ErrUninitialized = errors.New("ssd1351: display not initialized, call Begin first")
)

// State is the device lifecycle state.
type State uint8

// Device lifecycle states.
const (
	Uninitialized State = iota
	Off
	Normal
	Inverted
)

func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case Normal:
		return "normal"
	case Inverted:
		return "inverted"
	default:
		return "uninitialized"
	}
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int
}

// Display is an SSD1351 OLED display.
//
// The embedded framebuffer offers the buffer-only drawing surface; Flush and
// Refresh push its content to the panel, and the Draw and Fill display
// methods combine both steps.
type Display struct {
	*pixel.RGB565Image
	c      Conn
	width  int
	height int
	state  State
	mode   State
	font   Font
}

// New creates a driver for a panel of the configured size on the provided
// connection. A nil config selects the default 128x128 geometry. The
// hardware is not touched until Begin is called.
func New(c Conn, config *Config) (*Display, error) {
	if config == nil {
		config = new(Config)
	}

	width := config.Width
	if width == 0 {
		width = defaultWidth
	}
	height := config.Height
	if height == 0 {
		height = defaultHeight
	}
	if width < 1 || width > maxWidth || height < 1 || height > maxHeight {
		return nil, fmt.Errorf("%w: %dx%d, maximum size is %dx%d",
			ErrBounds, width, height, maxWidth, maxHeight)
	}

	return &Display{
		RGB565Image: pixel.NewRGB565Image(width, height),
		c:           c,
		width:       width,
		height:      height,
		mode:        Normal,
		font:        font5x8.Face,
	}, nil
}

func (d *Display) String() string {
	return fmt.Sprintf("SSD1351 %dx%d", d.width, d.height)
}

// State reports the device lifecycle state.
func (d *Display) State() State {
	return d.state
}

func (d *Display) command(cmnd byte, args ...byte) error {
	return d.c.Command(cmnd, args...)
}

func (d *Display) data(data ...byte) error {
	return d.c.Data(data...)
}

func (d *Display) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.c.Command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *Display) ready() error {
	if d.state == Uninitialized {
		return ErrUninitialized
	}
	return nil
}

// Begin powers up the panel: it pulses the reset line and issues the
// documented initialization command sequence, leaving the display on in
// normal mode. It must be called once before any display operation.
func (d *Display) Begin() (err error) {
	// Power stabilization.
	time.Sleep(1 * time.Millisecond)

	// Reset pulse.
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	time.Sleep(10 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}

	if err = d.commands([][]byte{
		{cmdCommandLock, 0x12}, // unlock the driver IC
		{cmdCommandLock, 0xB1}, // unlock commands A2,B1,B3,BB,BE
		{cmdDisplayOff},
	}); err != nil {
		return
	}
	d.state = Off

	// Start line 96 on 128x96 panels, 0 otherwise.
	startLine := byte(0)
	if d.height == 96 {
		startLine = 96
	}

	if err = d.commands([][]byte{
		{cmdClockDiv, 0xF1}, // clock divider 1, oscillator frequency 15
		{cmdMuxRatio, byte(d.height - 1)},
		{cmdSetRemap, 0x74}, // 65k color depth, COM split, reversed COM scan
		{cmdSetColumn, 0x00, byte(d.width - 1)},
		{cmdSetRow, 0x00, byte(d.height - 1)},
		{cmdStartLine, startLine},
		{cmdDisplayOffset, 0x00},
		{cmdSetGPIO, 0x00},        // GPIO pins disabled
		{cmdFunctionSelect, 0x01}, // internal VDD regulator
		{cmdPrecharge, 0x32},
		{cmdVCOMH, 0x05},
		{cmdNormalDisplay},
		{cmdContrastABC, 0xC8, 0x80, 0xC8},
		{cmdContrastMaster, 0x0F},
		{cmdSetVSL, 0xA0, 0xB5, 0x55},
		{cmdPrecharge2, 0x01},
		{cmdDisplayOn},
	}); err != nil {
		return
	}
	// The sequence above put the panel in normal mode.
	d.mode = Normal
	d.state = Normal

	return
}

// SetWindow sets the addressing window to the inclusive rectangle
// (x0,y0)-(x1,y1) and arms the device to accept pixel data. The window is
// clipped to the display bounds; a window entirely outside them is a no-op.
func (d *Display) SetWindow(x0, y0, x1, y1 int) error {
	if err := d.ready(); err != nil {
		return err
	}
	// Not image.Rect: a reversed window must stay empty, not swap.
	r := image.Rectangle{
		Min: image.Point{X: x0, Y: y0},
		Max: image.Point{X: x1 + 1, Y: y1 + 1},
	}.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	return d.commands([][]byte{
		{cmdSetColumn, byte(r.Min.X), byte(r.Max.X - 1)},
		{cmdSetRow, byte(r.Min.Y), byte(r.Max.Y - 1)},
		{cmdWriteRAM},
	})
}

// Flush pushes the rectangle r of the framebuffer to the panel, high pixel
// byte first. The rectangle is clipped to the display bounds; an entirely
// off-screen rectangle is a no-op.
func (d *Display) Flush(r image.Rectangle) error {
	if err := d.ready(); err != nil {
		return err
	}
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	if err := d.SetWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}

	var (
		pix    = d.RGB565Image.Pix
		stride = d.RGB565Image.Stride
		batch  = make([]byte, 0, flushBatchSize)
	)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := pix[y*stride+r.Min.X*2 : y*stride+r.Max.X*2]
		for len(row) > 0 {
			n := cap(batch) - len(batch)
			if n > len(row) {
				n = len(row)
			}
			batch = append(batch, row[:n]...)
			row = row[n:]
			if len(batch) == cap(batch) {
				if err := d.data(batch...); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}
	if len(batch) > 0 {
		return d.data(batch...)
	}
	return nil
}

// Refresh redraws the entire display from the framebuffer.
func (d *Display) Refresh() error {
	return d.Flush(d.Bounds())
}

// DrawPixel sets the pixel at (x, y) and pushes it to the panel. Pixels
// outside the display bounds are ignored.
func (d *Display) DrawPixel(x, y int, c color.Color) error {
	if err := d.ready(); err != nil {
		return err
	}
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return nil
	}
	d.Set(x, y, c)
	return d.Flush(image.Rect(x, y, x+1, y+1))
}

// FillRect fills the rectangle r with the color c and pushes it to the
// panel. The rectangle is clipped to the display bounds, symmetric at all
// four edges; an entirely off-screen rectangle is a no-op.
func (d *Display) FillRect(r image.Rectangle, c color.Color) error {
	if err := d.ready(); err != nil {
		return err
	}
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	d.RGB565Image.FillRect(r, c)
	return d.Flush(r)
}

// FillScreen fills the whole panel with a single color.
func (d *Display) FillScreen(c color.Color) error {
	return d.FillRect(d.Bounds(), c)
}

// DrawImage draws src with its top left corner at p and pushes the covered
// rectangle to the panel, clipped to the display bounds.
func (d *Display) DrawImage(p image.Point, src image.Image) error {
	if err := d.ready(); err != nil {
		return err
	}
	size := src.Bounds().Size()
	r := image.Rectangle{Min: p, Max: p.Add(size)}.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	sp := src.Bounds().Min.Add(r.Min.Sub(p))
	draw.Draw(d.RGB565Image, r, src, sp, draw.Src)
	return d.Flush(r)
}

// Invert switches the panel to inverted color mode. The framebuffer is not
// modified.
func (d *Display) Invert() error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.command(cmdInvertDisplay); err != nil {
		return err
	}
	d.mode = Inverted
	if d.state != Off {
		d.state = Inverted
	}
	return nil
}

// Normal returns the panel to normal color mode.
func (d *Display) Normal() error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.command(cmdNormalDisplay); err != nil {
		return err
	}
	d.mode = Normal
	if d.state != Off {
		d.state = Normal
	}
	return nil
}

// Show toggles the display panel on or off.
func (d *Display) Show(show bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	if !show {
		if err := d.command(cmdDisplayOff); err != nil {
			return err
		}
		d.state = Off
		return nil
	}
	if err := d.command(cmdDisplayOn); err != nil {
		return err
	}
	d.state = d.mode
	return nil
}

// SetContrast adjusts the master contrast, level 0 (dimmest) through 15
// (brightest).
func (d *Display) SetContrast(level uint8) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.command(cmdContrastMaster, level&0x0F)
}

// Close closes the connection. The panel itself is left in its current
// state; call Show(false) first to power it off.
func (d *Display) Close() error {
	return d.c.Close()
}

// Interface checks.
var (
	_ draw.Image   = (*Display)(nil)
	_ fmt.Stringer = (*Display)(nil)
)
