package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the demo wiring, readable from a YAML file so per-board pin
// assignments survive reflashes. Flags override any value set here.
type Config struct {
	// Port is the SPI port name as registered with spireg, for example
	// "SPI0.0". Empty selects the first available port.
	Port string `yaml:"port"`

	// SpeedHz is the SPI clock speed.
	SpeedHz uint32 `yaml:"speed_hz"`

	// MaxTransfer bounds a single SPI write in bytes.
	MaxTransfer int `yaml:"max_transfer"`

	// ResetPin and DCPin are GPIO pin names as registered with gpioreg.
	ResetPin string `yaml:"reset_pin"`
	DCPin    string `yaml:"dc_pin"`

	// ButtonPin, when set, advances the demo scene on a button press.
	ButtonPin string `yaml:"button_pin"`

	// Width and Height of the panel in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func defaultConfig() *Config {
	return &Config{
		SpeedHz:  8_000_000,
		ResetPin: "GPIO25",
		DCPin:    "GPIO24",
		Width:    128,
		Height:   128,
	}
}

// loadConfig reads the wiring file at path, or returns the defaults when no
// path is given.
func loadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if path == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	conf.normalize()
	return conf, nil
}

// normalize fills zero values with defaults so partially filled wiring
// files still behave.
func (c *Config) normalize() {
	def := defaultConfig()
	if c.SpeedHz == 0 {
		c.SpeedHz = def.SpeedHz
	}
	if c.ResetPin == "" {
		c.ResetPin = def.ResetPin
	}
	if c.DCPin == "" {
		c.DCPin = def.DCPin
	}
	if c.Width == 0 {
		c.Width = def.Width
	}
	if c.Height == 0 {
		c.Height = def.Height
	}
}
