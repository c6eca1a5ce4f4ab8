package ssd1351

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Conn errors.
var (
	ErrResetPin = errors.New("ssd1351: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("ssd1351: data/command (DC) GPIO pin is invalid")
)

// maxSPISpeed is the fastest serial clock the chip accepts (50 ns cycle).
const maxSPISpeed = 20_000_000

// defaultMaxTransfer is the write chunk size used when neither the
// configuration nor the port report a transfer limit.
const defaultMaxTransfer = 4096

// Conn is the connection interface for communicating with the display.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

// SPIConfig describes the SPI bus configuration.
//
// The display is written in 4-wire serial mode, so next to the bus itself
// both the Reset and DC pins are required.
type SPIConfig struct {
	// Port is the SPI port name as registered with spireg, for example
	// "SPI0.0". Leave empty to use the first available port.
	Port string

	// SpeedHz is the serial clock speed, at most 20 MHz.
	SpeedHz uint32

	// MaxTransfer is the largest byte count sent in a single bus write.
	// Larger payloads are split into chunks of this size. When zero, the
	// port's own transfer limit is used, or 4096 if it does not report one.
	// Boards with a restricted spidev buffer typically need 255 or 1024
	// here.
	MaxTransfer int

	// Reset pin.
	Reset gpio.PinOut

	// DC is the data/command selector pin, low for commands and high for
	// display data.
	DC gpio.PinOut
}

// DefaultSPIConfig are the default configuration values. The Reset and DC
// pins have no default and must be supplied by the caller.
var DefaultSPIConfig = SPIConfig{
	Port:    "",
	SpeedHz: 8_000_000,
}

type spiConn struct {
	mu          sync.Mutex
	port        spi.PortCloser
	bus         spi.Conn
	reset       gpio.PinOut
	dc          gpio.PinOut
	dcLevel     gpio.Level
	maxTransfer int
}

// OpenSPI opens the SPI port described by config and claims the reset and
// data/command pins. A nil config uses DefaultSPIConfig, which fails unless
// pins are configured.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}

	speed := config.SpeedHz
	if speed == 0 {
		speed = DefaultSPIConfig.SpeedHz
	}
	if speed > maxSPISpeed {
		return nil, fmt.Errorf("ssd1351: invalid SPI speed %dHz, maximum is %dHz", speed, maxSPISpeed)
	}

	port, err := spireg.Open(config.Port)
	if err != nil {
		return nil, fmt.Errorf("ssd1351: open SPI port %q: %w", config.Port, err)
	}

	// The chip latches SDIN on the rising clock edge with the clock idle
	// high (SPI mode 3).
	bus, err := port.Connect(physic.Frequency(speed)*physic.Hertz, spi.Mode3, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("ssd1351: connect: %w", err)
	}

	maxTransfer := config.MaxTransfer
	if maxTransfer <= 0 {
		if limits, ok := bus.(conn.Limits); ok {
			maxTransfer = limits.MaxTxSize()
		}
		if maxTransfer <= 0 {
			maxTransfer = defaultMaxTransfer
		}
	}

	c := &spiConn{
		port:        port,
		bus:         bus,
		reset:       config.Reset,
		dc:          config.DC,
		maxTransfer: maxTransfer,
	}

	// Idle levels: reset inactive, command mode selected.
	if err = c.reset.Out(gpio.High); err != nil {
		_ = port.Close()
		return nil, err
	}
	if err = c.dc.Out(gpio.Low); err != nil {
		_ = port.Close()
		return nil, err
	}

	return c, nil
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.port)
}

func (c *spiConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reset.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel = level
	}
	return nil
}

func (c *spiConn) Command(cmnd byte, args ...byte) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	if err = c.bus.Tx([]byte{cmnd}, nil); err != nil {
		return fmt.Errorf("ssd1351: write command %#02x: %w", cmnd, err)
	}
	// Argument bytes travel through the data path with the selector high;
	// the chip expects this for multi-byte commands.
	if len(args) > 0 {
		return c.data(args)
	}
	return
}

func (c *spiConn) Data(data ...byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data(data)
}

// data writes payload bytes with the selector high. The selector is restored
// low on every path, including write failures, so the next byte on the bus is
// interpreted as a command.
func (c *spiConn) data(data []byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	defer func() {
		if derr := c.updateDC(gpio.Low); derr != nil && err == nil {
			err = derr
		}
	}()
	return c.writeChunked(data)
}

func (c *spiConn) writeChunked(data []byte) (err error) {
	if len(data) <= c.maxTransfer {
		if err = c.bus.Tx(data, nil); err != nil {
			return fmt.Errorf("ssd1351: write %d bytes: %w", len(data), err)
		}
		return
	}

	buffer := data
	for len(buffer) > 0 {
		chunk := buffer
		if len(chunk) > c.maxTransfer {
			chunk = chunk[:c.maxTransfer]
		}
		if err = c.bus.Tx(chunk, nil); err != nil {
			return fmt.Errorf("ssd1351: write %d bytes: %w", len(chunk), err)
		}
		buffer = buffer[len(chunk):]
	}
	return
}

// Interface checks.
var (
	_ Conn = (*spiConn)(nil)
)
