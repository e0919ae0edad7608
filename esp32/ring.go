// Package esp32 shows the eight LEDs on a WS2812 ring wired to an ESP32.
package esp32

import (
	"image/color"
	"machine"
	"runtime/interrupt"
	"time"

	"libdb.so/flasher/board"
	"tinygo.org/x/drivers/ws2812"
)

// NumLEDs is the number of pixels on the ring. Pixel i shows LED i+1.
const NumLEDs = len(board.Ring)

// LitColor is the color of a lit LED.
var LitColor = color.RGBA{255, 94, 155, 255}

// Ring renders the register latches onto the pixel ring and samples the
// switches from two input pins.
type Ring struct {
	led      ws2812.Device
	ledPin   machine.Pin
	switches [2]machine.Pin

	latch [2]uint8
	pix   [NumLEDs]color.RGBA
}

var _ board.Board = (*Ring)(nil)

// NewRing creates a ring driven from ledPin with the switches on sw0 and sw1.
func NewRing(ledPin, sw0, sw1 machine.Pin) *Ring {
	return &Ring{
		led:      ws2812.New(ledPin),
		ledPin:   ledPin,
		switches: [2]machine.Pin{sw0, sw1},
	}
}

// Configure sets up the pins and blanks the ring. The register setup itself
// has nothing to map onto: the ring is always an output and the switches
// are always inputs.
func (r *Ring) Configure(board.Setup) error {
	r.ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for _, sw := range r.switches {
		sw.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	r.latch = [2]uint8{}
	r.render()
	return nil
}

func (r *Ring) Write(p board.Port, value uint8) {
	if r.latch[p] == value {
		return
	}
	r.latch[p] = value
	r.render()
}

func (r *Ring) Read(pin board.Pin) board.Level {
	switch pin {
	case board.Switch0:
		return board.Level(r.switches[0].Get())
	case board.Switch1:
		return board.Level(r.switches[1].Get())
	default:
		return board.Level(r.latch[pin.Port]&(1<<pin.Bit) != 0)
	}
}

func (r *Ring) Err() error { return nil }

func (r *Ring) render() {
	for i, on := range board.Lit(r.latch[board.PortA], r.latch[board.PortC]) {
		if on {
			r.pix[i] = LitColor
		} else {
			r.pix[i] = color.RGBA{}
		}
	}
	critical(func() { r.led.WriteColors(r.pix[:]) })
}

func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}

// Clock delays with the scheduler's sleep.
type Clock struct{}

func (Clock) Delay1ms() { time.Sleep(time.Millisecond) }
