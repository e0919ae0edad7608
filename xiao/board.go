// Package xiao maps the two LED registers onto the pins of a Seeed XIAO
// RP2040.
package xiao

import (
	"machine"
	"time"

	"libdb.so/flasher/board"
)

// Pins maps each register bit to a pin. Unused bits are machine.NoPin.
var Pins = [2][8]machine.Pin{
	board.PortA: {
		machine.D0, // RA0, switch 0
		machine.D1, // RA1, LED6
		machine.D2, // RA2, LED2
		machine.NoPin,
		machine.D3, // RA4, switch 1
		machine.D4, // RA5, LED5
		machine.NoPin,
		machine.NoPin,
	},
	board.PortC: {
		machine.D5, // RC0, LED1
		machine.D6, // RC1, LED8
		machine.D7, // RC2, LED7
		machine.D8, // RC3, LED4
		machine.D9, // RC4, LED3
		machine.NoPin,
		machine.NoPin,
		machine.NoPin,
	},
}

// Board drives the LEDs and samples the switches through the XIAO's pins.
type Board struct {
	pins  [2][8]machine.Pin
	tris  [2]uint8
	latch [2]uint8
}

var _ board.Board = (*Board)(nil)

// NewBoard creates a board using Pins.
func NewBoard() *Board {
	return &Board{pins: Pins}
}

// Configure sets the pin directions. Inputs get the internal pull-up, since
// the switches pull to ground when pressed.
func (b *Board) Configure(setup board.Setup) error {
	for port, pins := range b.pins {
		tris := setup.Tris(board.Port(port))
		b.tris[port] = tris

		for bit, pin := range pins {
			if pin == machine.NoPin {
				continue
			}
			if tris&(1<<bit) != 0 {
				pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
			} else {
				pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
				pin.Low()
			}
		}
	}

	b.latch = [2]uint8{}
	return nil
}

func (b *Board) Write(p board.Port, value uint8) {
	b.latch[p] = value
	for bit, pin := range b.pins[p] {
		if pin == machine.NoPin || b.tris[p]&(1<<bit) != 0 {
			continue
		}
		pin.Set(value&(1<<bit) != 0)
	}
}

func (b *Board) Read(pin board.Pin) board.Level {
	p := b.pins[pin.Port][pin.Bit]
	if p == machine.NoPin || b.tris[pin.Port]&(1<<pin.Bit) == 0 {
		return board.Level(b.latch[pin.Port]&(1<<pin.Bit) != 0)
	}
	return board.Level(p.Get())
}

// ReadPort samples every bit of a port.
func (b *Board) ReadPort(p board.Port) uint8 {
	var v uint8
	for bit := uint8(0); bit < 8; bit++ {
		if b.Read(board.Pin{Port: p, Bit: bit}) == board.High {
			v |= 1 << bit
		}
	}
	return v
}

func (b *Board) Err() error { return nil }

// Clock delays with the scheduler's sleep.
type Clock struct{}

func (Clock) Delay1ms() { time.Sleep(time.Millisecond) }
