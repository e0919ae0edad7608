package flasher

import (
	"encoding"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/flasher/board"
)

// Config is the configuration for the flasher daemon.
type Config struct {
	// Backend selects where the GPIO surface lives.
	Backend Backend `toml:"backend"`
	// XtalFreq is the oscillator frequency in Hz the 1ms delay is calibrated
	// for. It defaults to the 4MHz internal oscillator.
	XtalFreq uint32 `toml:"xtal_freq"`

	Serial   SerialConfig   `toml:"serial"`
	GPIOCDev GPIOCDevConfig `toml:"gpiocdev"`
	Sim      SimConfig      `toml:"sim"`
	Monitor  MonitorConfig  `toml:"monitor"`
}

// MonitorConfig is the configuration for the websocket LED monitor.
type MonitorConfig struct {
	// Listen is the address to serve viewers on, such as ":1337". The
	// monitor is off if it is empty.
	Listen string `toml:"listen"`
}

// Backend is the kind of board the daemon drives.
type Backend string

const (
	// SimBackend runs against a virtual device with a virtual clock.
	SimBackend Backend = "sim"
	// SerialBackend drives a microcontroller running the ledserial bridge.
	SerialBackend Backend = "serial"
	// GPIOCDevBackend drives Linux GPIO lines through the character device.
	GPIOCDevBackend Backend = "gpiocdev"
)

// SerialConfig is the configuration for the serial backend.
type SerialConfig struct {
	// Device is the path to the device file for the board.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// ReadTimeout is how long to wait for the board to answer a packet.
	ReadTimeout TOMLDuration `toml:"read_timeout"`
}

// GPIOCDevConfig is the configuration for the gpiocdev backend.
type GPIOCDevConfig struct {
	// Chip is the GPIO chip name, such as gpiochip0.
	Chip string `toml:"chip"`
	// PortA and PortC map each register bit to a line offset on Chip.
	// Bits past the end of the list, or set to -1, are not connected.
	PortA []int `toml:"port_a"`
	PortC []int `toml:"port_c"`
}

// Offset returns the line offset of the given pin, or -1.
func (c GPIOCDevConfig) Offset(pin board.Pin) int {
	offsets := c.PortC
	if pin.Port == board.PortA {
		offsets = c.PortA
	}
	if int(pin.Bit) >= len(offsets) {
		return -1
	}
	return offsets[pin.Bit]
}

// SimConfig is the configuration for the sim backend.
type SimConfig struct {
	// Oscillator is the frequency the simulated part actually runs at.
	// It defaults to XtalFreq.
	Oscillator uint32 `toml:"oscillator"`
	// Duration is how much virtual time to simulate.
	Duration TOMLDuration `toml:"duration"`
	// Steps is the switch script.
	Steps []SimStep `toml:"step"`
}

// SimStep sets both switches at a point in virtual time.
type SimStep struct {
	At      TOMLDuration `toml:"at"`
	Switch0 SwitchState  `toml:"switch0"`
	Switch1 SwitchState  `toml:"switch1"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.XtalFreq < 4000 {
		return fmt.Errorf("xtal_freq %d Hz is too low for a 1ms delay", c.XtalFreq)
	}
	if c.XtalFreq > uint32(board.MaxOscillator) {
		return fmt.Errorf("xtal_freq %d Hz is above %d Hz", c.XtalFreq, board.MaxOscillator)
	}

	switch c.Backend {
	case SimBackend:
		if c.Sim.Oscillator < 4000 {
			return fmt.Errorf("sim oscillator %d Hz is too low", c.Sim.Oscillator)
		}
		if c.Sim.Oscillator > uint32(board.MaxOscillator) {
			return fmt.Errorf("sim oscillator %d Hz is above %d Hz", c.Sim.Oscillator, board.MaxOscillator)
		}
		if c.Sim.Duration <= 0 {
			return errors.New("sim duration must be positive")
		}
		for i := 1; i < len(c.Sim.Steps); i++ {
			if c.Sim.Steps[i].At < c.Sim.Steps[i-1].At {
				return fmt.Errorf("sim step %d at %v comes before step %d", i, c.Sim.Steps[i].At, i-1)
			}
		}

	case SerialBackend:
		if c.Serial.Device == "" {
			return errors.New("no serial device configured")
		}
		if c.Serial.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Serial.Baud)
		}

	case GPIOCDevBackend:
		if c.GPIOCDev.Chip == "" {
			return errors.New("no gpio chip configured")
		}
		if len(c.GPIOCDev.PortA) > 8 || len(c.GPIOCDev.PortC) > 8 {
			return errors.New("a port has at most 8 bits")
		}
		for _, sw := range []board.Pin{board.Switch0, board.Switch1} {
			if c.GPIOCDev.Offset(sw) < 0 {
				return fmt.Errorf("switch on RA%d is not connected", sw.Bit)
			}
		}

	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	return nil
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d TOMLDuration) String() string {
	return time.Duration(d).String()
}

// SwitchState is a switch position that can be parsed from TOML. The zero
// value is a released switch.
type SwitchState uint8

const (
	SwitchReleased SwitchState = iota
	SwitchPressed
)

var (
	_ encoding.TextUnmarshaler = (*SwitchState)(nil)
	_ encoding.TextMarshaler   = (*SwitchState)(nil)
)

// Level returns the pin level the switch drives. Switches are active low.
func (s SwitchState) Level() board.Level {
	if s == SwitchPressed {
		return board.On
	}
	return board.Off
}

func (s *SwitchState) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "on", "pressed":
		*s = SwitchPressed
	case "off", "released":
		*s = SwitchReleased
	default:
		return fmt.Errorf("invalid switch state %q", text)
	}
	return nil
}

func (s SwitchState) MarshalText() ([]byte, error) {
	if s == SwitchPressed {
		return []byte("on"), nil
	}
	return []byte("off"), nil
}

// ParseConfig parses a configuration from a reader and fills in defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	applyDefaults(&config)
	return &config, nil
}

// DefaultConfig returns the configuration used when there is no file: one
// simulated minute with both switches released.
func DefaultConfig() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

func applyDefaults(c *Config) {
	if c.Backend == "" {
		c.Backend = SimBackend
	}
	if c.XtalFreq == 0 {
		c.XtalFreq = uint32(board.DefaultXtalFreq)
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = 115200
	}
	if c.Serial.ReadTimeout == 0 {
		c.Serial.ReadTimeout = TOMLDuration(100 * time.Millisecond)
	}
	if c.GPIOCDev.Chip == "" {
		c.GPIOCDev.Chip = "gpiochip0"
	}
	if c.Sim.Oscillator == 0 {
		c.Sim.Oscillator = c.XtalFreq
	}
	if c.Sim.Duration == 0 {
		c.Sim.Duration = TOMLDuration(time.Minute)
	}
}
