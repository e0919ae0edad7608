// Package board describes the GPIO surface the LED patterns are written
// against: two output registers, two switch inputs and a millisecond delay.
package board

import "time"

// Port identifies one of the two GPIO register groups.
type Port uint8

const (
	// PortA drives LED2, LED5 and LED6 and carries both switches.
	PortA Port = iota
	// PortC drives LED1, LED3, LED4, LED7 and LED8.
	PortC
)

// String returns a string representation of the port.
func (p Port) String() string {
	switch p {
	case PortA:
		return "PORTA"
	case PortC:
		return "PORTC"
	default:
		return "PORT?"
	}
}

// Pin is a single bit of a port.
type Pin struct {
	Port Port
	Bit  uint8
}

// Level is the logic level of a pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Switches are wired active low: a pressed switch pulls its pin to ground.
const (
	On  = Low
	Off = High
)

var (
	// Switch0 is RA0, pin 13.
	Switch0 = Pin{PortA, 0}
	// Switch1 is RA4, pin 3.
	Switch1 = Pin{PortA, 4}
)

// Setup is the register configuration applied once at startup.
type Setup struct {
	// ComparatorMode is written to CMCON0. 7 switches the comparators off.
	ComparatorMode uint8
	// AnalogSelect is written to ANSEL. 0 makes every pin digital.
	AnalogSelect uint8
	// TrisA and TrisC are the direction registers. A set bit is an input.
	TrisA uint8
	TrisC uint8
}

// DefaultSetup turns the comparators off, makes all pins digital, and leaves
// RA0 and RA4 as the only inputs.
var DefaultSetup = Setup{
	ComparatorMode: 7,
	AnalogSelect:   0,
	TrisA:          0b010001,
	TrisC:          0b000000,
}

// Tris returns the direction register for the given port.
func (s Setup) Tris(p Port) uint8 {
	if p == PortA {
		return s.TrisA
	}
	return s.TrisC
}

// Board is the GPIO surface. Writes replace the whole register; reads are
// raw levels with no debouncing.
//
// Write and Read never fail at the call site. Implementations backed by a
// fallible transport keep the first error and report it through Err.
type Board interface {
	// Configure applies the startup register configuration.
	Configure(Setup) error
	// Write sets the output latch of a port.
	Write(p Port, value uint8)
	// Read samples an input pin.
	Read(pin Pin) Level
	// Err returns the first error encountered by Write or Read, if any.
	Err() error
}

// Clock provides the 1ms delay primitive.
type Clock interface {
	Delay1ms()
}

// MsDelay blocks for count milliseconds by repeating the 1ms primitive.
func MsDelay(c Clock, count uint) {
	for i := uint(0); i < count; i++ {
		c.Delay1ms()
	}
}

// Oscillator is a clock frequency in Hz.
type Oscillator uint32

const (
	// DefaultXtalFreq is the 4MHz internal oscillator, Tosc = 0.25us.
	DefaultXtalFreq Oscillator = 4000000
	// MaxOscillator is the fastest clock an instruction cycle can be timed
	// at with nanosecond resolution.
	MaxOscillator Oscillator = 4000000000
)

// InstructionCycle returns the duration of one instruction cycle, which takes
// four oscillator periods.
func (o Oscillator) InstructionCycle() time.Duration {
	return 4 * time.Second / time.Duration(o)
}

// Cycles returns the duration of n instruction cycles. Unlike multiplying
// InstructionCycle, it only rounds once.
func (o Oscillator) Cycles(n uint64) time.Duration {
	return time.Duration(n * 4 * uint64(time.Second) / uint64(o))
}

// CyclesPerMs returns how many instruction cycles a 1ms delay burns when it
// is calibrated for this frequency.
func (o Oscillator) CyclesPerMs() uint32 {
	return uint32(o) / 4 / 1000
}
