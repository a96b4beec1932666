package bus

import (
	"flag"
	"os"
)

// Config defines how to open the bus.
type Config struct {
	// Driver selects a registered Opener, e.g. spidev, spidriver, loopback.
	Driver string
	// Device is the device node, e.g. /dev/spidev0.0 or /dev/ttyUSB0.
	Device string
	// Mode is the 2-bit SPI mode (CPOL<<1 | CPHA).
	Mode int
	// BitsPerWord is fixed to 8 by the device.
	BitsPerWord int
	// SpeedHz is the clock speed.
	SpeedHz int64
}

// Defaults.
const (
	DefaultDriver  = "spidev"
	DefaultDevice  = "/dev/spidev0.0"
	DefaultSpeedHz = 16000000
)

var defaultConfig = Config{
	Driver:      DefaultDriver,
	Device:      DefaultDevice,
	BitsPerWord: 8,
	SpeedHz:     DefaultSpeedHz,
}

func init() {
	if val := os.Getenv("STIM_DRIVER"); val != "" {
		defaultConfig.Driver = val
	}
	if val := os.Getenv("STIM_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Driver, "driver", defaultConfig.Driver, "Bus driver: spidev, spidriver or loopback.")
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Bus device node.")
	flag.IntVar(&defaultConfig.Mode, "mode", defaultConfig.Mode, "SPI mode (0-3).")
	flag.Int64Var(&defaultConfig.SpeedHz, "speed", defaultConfig.SpeedHz, "SPI clock speed in Hz.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Normalized returns a copy with the mode masked to 2 bits and the fixed
// word width applied.
func (c Config) Normalized() Config {
	c.Mode &= 3
	c.BitsPerWord = 8
	if c.SpeedHz <= 0 {
		c.SpeedHz = DefaultSpeedHz
	}
	return c
}

// Open opens a Session using the registered driver.
func (c *Config) Open() (*Session, error) {
	opener, err := DriverFor(c.Driver)
	if err != nil {
		return nil, err
	}
	return Open(*c, opener)
}
