package board

import (
	"sort"
	"time"
)

// Snapshot is the register state held by one delay, as seen from the pins.
// Writes that are not followed by a delay never show up as a snapshot.
type Snapshot struct {
	A, C uint8
	// Hold is the number of 1ms delays the state was held for.
	Hold uint32
}

// ScriptStep sets both switches once the virtual clock reaches At.
type ScriptStep struct {
	At      time.Duration
	Switch0 Level
	Switch1 Level
}

// Sim is a virtual device: two output latches, two switch inputs and a
// virtual clock. It implements both Board and Clock and is meant to be
// driven from a single goroutine.
type Sim struct {
	// Xtal is the frequency the delay primitive is calibrated for.
	Xtal Oscillator
	// Osc is the frequency actually clocking the part. It differs from Xtal
	// only when simulating a miscalibrated build.
	Osc Oscillator

	Setup      Setup
	Configured bool

	A, C             uint8
	Switch0, Switch1 Level

	// Elapsed is the virtual time since power on.
	Elapsed time.Duration
	// Writes counts register writes.
	Writes int

	// Record enables snapshot recording.
	Record bool
	// OnWrite is called after every register write.
	OnWrite func(p Port, value uint8)
	// OnHold is called whenever a new register state starts being held,
	// before any of the hold has elapsed.
	OnHold func(a, c uint8)

	snapshots []Snapshot
	script    []ScriptStep
	written   bool
	holding   bool
}

var (
	_ Board = (*Sim)(nil)
	_ Clock = (*Sim)(nil)
)

// NewSim creates a virtual device clocked at xtal with both switches
// released.
func NewSim(xtal Oscillator) *Sim {
	return &Sim{
		Xtal:    xtal,
		Osc:     xtal,
		Switch0: Off,
		Switch1: Off,
	}
}

// SetScript replaces the switch script. Steps are applied in time order as
// the virtual clock passes them.
func (s *Sim) SetScript(steps []ScriptStep) {
	s.script = append([]ScriptStep(nil), steps...)
	sort.SliceStable(s.script, func(i, j int) bool {
		return s.script[i].At < s.script[j].At
	})
}

// Configure implements Board.
func (s *Sim) Configure(setup Setup) error {
	s.Setup = setup
	s.Configured = true
	return nil
}

// Write implements Board.
func (s *Sim) Write(p Port, value uint8) {
	switch p {
	case PortA:
		s.A = value
	case PortC:
		s.C = value
	}
	s.Writes++
	s.written = true

	if s.OnWrite != nil {
		s.OnWrite(p, value)
	}
}

// Read implements Board. Every read costs one instruction cycle. Output pins
// read back their latch.
func (s *Sim) Read(pin Pin) Level {
	s.Elapsed += s.Osc.Cycles(1)
	s.applyScript()

	switch pin {
	case Switch0:
		return s.Switch0
	case Switch1:
		return s.Switch1
	}

	latch := s.C
	if pin.Port == PortA {
		latch = s.A
	}
	return Level(latch&(1<<pin.Bit) != 0)
}

// Err implements Board. The virtual device never fails.
func (s *Sim) Err() error { return nil }

// Delay1ms implements Clock. It burns the number of instruction cycles a 1ms
// delay calibrated for Xtal would burn on a part clocked at Osc.
func (s *Sim) Delay1ms() {
	changed := s.written || !s.holding
	if changed {
		s.written = false
		s.holding = true
		if s.OnHold != nil {
			s.OnHold(s.A, s.C)
		}
	}

	if s.Record {
		// Recording may start in the middle of a hold.
		if changed || len(s.snapshots) == 0 {
			s.snapshots = append(s.snapshots, Snapshot{A: s.A, C: s.C})
		}
		s.snapshots[len(s.snapshots)-1].Hold++
	}

	s.Elapsed += s.Osc.Cycles(uint64(s.Xtal.CyclesPerMs()))
}

// TakeSnapshots returns the recorded snapshots and clears the record. The
// state currently being held is included with its hold so far.
func (s *Sim) TakeSnapshots() []Snapshot {
	snaps := s.snapshots
	s.snapshots = nil
	s.holding = false
	return snaps
}

func (s *Sim) applyScript() {
	for len(s.script) > 0 && s.script[0].At <= s.Elapsed {
		s.Switch0 = s.script[0].Switch0
		s.Switch1 = s.script[0].Switch1
		s.script = s.script[1:]
	}
}
