// Package poller reads the two mode switches and dispatches the matching
// pattern.
package poller

import (
	"fmt"

	"libdb.so/flasher/board"
	"libdb.so/flasher/pattern"
)

// Mode is the pattern selected by the switches.
type Mode uint8

const (
	// Off means both switches are released; every LED is turned off.
	Off Mode = iota
	// PatternOne means only switch0 is pressed.
	PatternOne
	// PatternTwo means only switch1 is pressed.
	PatternTwo
	// Undefined means both switches are pressed. Nothing is done and the LEDs
	// keep whatever the last pattern left on them.
	Undefined
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case PatternOne:
		return "pattern-one"
	case PatternTwo:
		return "pattern-two"
	case Undefined:
		return "undefined"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Classify maps raw switch levels to a mode.
func Classify(switch0, switch1 board.Level) Mode {
	switch {
	case switch0 == board.Off && switch1 == board.Off:
		return Off
	case switch0 == board.On && switch1 == board.Off:
		return PatternOne
	case switch0 == board.Off && switch1 == board.On:
		return PatternTwo
	default:
		return Undefined
	}
}

// ReadMode samples both switches once.
func ReadMode(b board.Board) Mode {
	return Classify(b.Read(board.Switch0), b.Read(board.Switch1))
}

// Poller is the main loop of the device.
type Poller struct {
	board  board.Board
	player *pattern.Player

	// Observe, if set, is called with every mode read, before it is acted on.
	Observe func(Mode)
}

// New creates a poller reading switches from b and playing patterns with p.
func New(b board.Board, p *pattern.Player) *Poller {
	return &Poller{board: b, player: p}
}

// Step runs one iteration of the loop: it reads the switches and plays the
// selected pattern to completion. It returns the mode it acted on.
func (p *Poller) Step() Mode {
	mode := ReadMode(p.board)
	if p.Observe != nil {
		p.Observe(mode)
	}

	switch mode {
	case Off:
		p.player.Play(pattern.TurnOffLEDs)
	case PatternOne:
		p.player.Run(pattern.PatternOne)
	case PatternTwo:
		p.player.Run(pattern.PatternTwo)
	case Undefined:
		// Both switches pressed: leave the LEDs alone.
	}

	return mode
}

// Run loops forever.
func (p *Poller) Run() {
	for {
		p.Step()
	}
}
