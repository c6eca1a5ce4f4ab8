// Package button reads momentary push buttons attached to GPIO pins, such
// as the ones found on SSD1351 breakout boards and Pi HATs.
package button

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ErrPin is returned when the GPIO pin is missing or invalid.
var ErrPin = errors.New("button: GPIO pin is invalid")

// Button is a momentary push button on a GPIO pin. Buttons switching to
// ground use a pull-up and read low when pressed, buttons switching to the
// supply rail use a pull-down and read high. Pressed normalizes both
// wirings to pressed or not.
type Button struct {
	pin    gpio.PinIn
	pullUp bool
}

// New configures pin as an input with the given pull resistor and edge
// detection on both edges. Use gpio.PullUp for buttons that switch to
// ground.
func New(pin gpio.PinIn, pull gpio.Pull) (*Button, error) {
	if pin == nil || pin == gpio.INVALID {
		return nil, ErrPin
	}
	if err := pin.In(pull, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("button: configure %s: %w", pin, err)
	}
	return &Button{
		pin:    pin,
		pullUp: pull != gpio.PullDown,
	}, nil
}

func (b *Button) String() string {
	return b.pin.Name()
}

// Pressed reports whether the button is currently held down.
func (b *Button) Pressed() bool {
	if b.pullUp {
		return b.pin.Read() == gpio.Low
	}
	return b.pin.Read() == gpio.High
}

// WaitForPress blocks until the button is pressed or the timeout expires,
// and reports whether a press was seen. A negative timeout blocks forever.
func (b *Button) WaitForPress(timeout time.Duration) bool {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		if b.Pressed() {
			return true
		}
		wait := time.Duration(-1)
		if timeout >= 0 {
			wait = time.Until(deadline)
			if wait <= 0 {
				return false
			}
		}
		if !b.pin.WaitForEdge(wait) {
			return false
		}
	}
}
