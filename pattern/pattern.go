// Package pattern implements the LED animations as frame tables played back
// against a board.Board and a board.Clock.
package pattern

import (
	"fmt"

	"libdb.so/flasher/board"
)

// Writes is which ports a frame writes, and in what order.
type Writes uint8

const (
	// WriteCA writes PORTC, then PORTA.
	WriteCA Writes = iota
	// WriteAC writes PORTA, then PORTC.
	WriteAC
	// WriteC writes PORTC only. PORTA keeps what the previous frame or
	// sequence left on it.
	WriteC
	// WriteA writes PORTA only.
	WriteA
)

func (w Writes) writesA() bool { return w != WriteC }
func (w Writes) writesC() bool { return w != WriteA }

// Frame is one register state and how long it is held, in milliseconds.
// Every write is visible on the pins, so the order matters to anything
// watching them between delays.
type Frame struct {
	A, C   uint8
	Hold   uint16
	Writes Writes
}

// Sequence is a named, ordered list of frames. It always runs to completion.
type Sequence struct {
	Name   string
	Frames []Frame
}

// Duration returns the total hold of the sequence in milliseconds.
func (s Sequence) Duration() uint {
	var ms uint
	for _, f := range s.Frames {
		ms += uint(f.Hold)
	}
	return ms
}

// Step plays a sequence Repeat times. A zero Repeat plays it once.
type Step struct {
	Sequence Sequence
	Repeat   int
}

func (s Step) times() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// Program is an ordered list of steps.
type Program struct {
	Name  string
	Steps []Step
}

// Duration returns the total hold of the program in milliseconds.
func (p Program) Duration() uint {
	var ms uint
	for _, s := range p.Steps {
		ms += uint(s.times()) * s.Sequence.Duration()
	}
	return ms
}

// Sequences flattens the program into the order its sequences are played.
func (p Program) Sequences() []Sequence {
	var seqs []Sequence
	for _, s := range p.Steps {
		for i := 0; i < s.times(); i++ {
			seqs = append(seqs, s.Sequence)
		}
	}
	return seqs
}

// Player plays sequences on a board. It is not safe for concurrent use.
type Player struct {
	board board.Board
	clock board.Clock

	// OnSequence, if set, is called before each sequence starts.
	OnSequence func(name string)
}

// NewPlayer creates a player writing to b and waiting on c.
func NewPlayer(b board.Board, c board.Clock) *Player {
	return &Player{board: b, clock: c}
}

// Play writes each frame and holds it, strictly in order.
func (p *Player) Play(seq Sequence) {
	if p.OnSequence != nil {
		p.OnSequence(seq.Name)
	}
	for _, f := range seq.Frames {
		switch f.Writes {
		case WriteCA:
			p.board.Write(board.PortC, f.C)
			p.board.Write(board.PortA, f.A)
		case WriteAC:
			p.board.Write(board.PortA, f.A)
			p.board.Write(board.PortC, f.C)
		case WriteC:
			p.board.Write(board.PortC, f.C)
		case WriteA:
			p.board.Write(board.PortA, f.A)
		}
		board.MsDelay(p.clock, uint(f.Hold))
	}
}

// Run plays every step of the program. There is no way to stop it early.
func (p *Player) Run(prog Program) {
	for _, s := range prog.Steps {
		for i := 0; i < s.times(); i++ {
			p.Play(s.Sequence)
		}
	}
}

func (f Frame) String() string {
	a, c := "------", "------"
	if f.Writes.writesA() {
		a = fmt.Sprintf("%06b", f.A)
	}
	if f.Writes.writesC() {
		c = fmt.Sprintf("%06b", f.C)
	}
	return fmt.Sprintf("A=%s C=%s %dms", a, c, f.Hold)
}
