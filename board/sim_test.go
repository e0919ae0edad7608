package board

import (
	"testing"
	"time"
)

func TestMsDelayMatchedOscillator(t *testing.T) {
	sim := NewSim(DefaultXtalFreq)
	MsDelay(sim, 75)

	if sim.Elapsed != 75*time.Millisecond {
		t.Errorf("expected 75ms elapsed, got %v", sim.Elapsed)
	}
}

func TestMsDelayMiscalibrated(t *testing.T) {
	// Built for 4MHz, running on 8MHz: every delay is half as long.
	sim := NewSim(DefaultXtalFreq)
	sim.Osc = 8000000
	MsDelay(sim, 100)

	if sim.Elapsed != 50*time.Millisecond {
		t.Errorf("expected 50ms elapsed, got %v", sim.Elapsed)
	}
}

func TestOscillator(t *testing.T) {
	if c := DefaultXtalFreq.InstructionCycle(); c != time.Microsecond {
		t.Errorf("expected 1us instruction cycle, got %v", c)
	}
	if n := DefaultXtalFreq.CyclesPerMs(); n != 1000 {
		t.Errorf("expected 1000 cycles per ms, got %d", n)
	}
}

func TestOscillatorCycles(t *testing.T) {
	tests := []struct {
		osc  Oscillator
		n    uint64
		want time.Duration
	}{
		{DefaultXtalFreq, 1000, time.Millisecond},
		{3000000, 1000, 1333333 * time.Nanosecond},
		{MaxOscillator, 1, time.Nanosecond},
		{MaxOscillator, 1000000, time.Millisecond},
	}

	for _, test := range tests {
		if d := test.osc.Cycles(test.n); d != test.want {
			t.Errorf("%d cycles at %dHz: expected %v, got %v", test.n, test.osc, test.want, d)
		}
	}
}

func TestMsDelayFastOscillator(t *testing.T) {
	// Built for 4MHz, running at the fastest clock there is: time still passes.
	sim := NewSim(DefaultXtalFreq)
	sim.Osc = MaxOscillator
	MsDelay(sim, 1000)

	if sim.Elapsed != time.Millisecond {
		t.Errorf("expected 1ms elapsed, got %v", sim.Elapsed)
	}

	before := sim.Elapsed
	sim.Read(Switch0)
	if sim.Elapsed <= before {
		t.Errorf("expected a read to take time, elapsed stayed at %v", sim.Elapsed)
	}
}

func TestSimRecordMidHold(t *testing.T) {
	sim := NewSim(DefaultXtalFreq)
	sim.Write(PortC, LED3)
	MsDelay(sim, 2)

	sim.Record = true
	MsDelay(sim, 3)

	got := sim.TakeSnapshots()
	want := []Snapshot{{A: 0, C: LED3, Hold: 3}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSimOnWrite(t *testing.T) {
	sim := NewSim(DefaultXtalFreq)

	type write struct {
		port  Port
		value uint8
	}
	var writes []write
	sim.OnWrite = func(p Port, v uint8) { writes = append(writes, write{p, v}) }

	sim.Write(PortC, 0)
	sim.Write(PortA, LED2)

	want := []write{{PortC, 0}, {PortA, LED2}}
	if len(writes) != len(want) || writes[0] != want[0] || writes[1] != want[1] {
		t.Errorf("expected writes %v, got %v", want, writes)
	}
}

func TestSimSnapshots(t *testing.T) {
	sim := NewSim(DefaultXtalFreq)
	sim.Record = true

	var holds int
	sim.OnHold = func(a, c uint8) { holds++ }

	sim.Write(PortC, LED1)
	MsDelay(sim, 3)
	sim.Write(PortA, LED2) // overwritten before any delay
	sim.Write(PortA, LED5)
	MsDelay(sim, 2)
	sim.Write(PortC, LED1) // same state again, still a new frame
	MsDelay(sim, 1)

	want := []Snapshot{
		{A: 0, C: LED1, Hold: 3},
		{A: LED5, C: LED1, Hold: 2},
		{A: LED5, C: LED1, Hold: 1},
	}

	got := sim.TakeSnapshots()
	if len(got) != len(want) {
		t.Fatalf("expected %d snapshots, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if holds != 3 {
		t.Errorf("expected 3 holds, got %d", holds)
	}
	if sim.Writes != 4 {
		t.Errorf("expected 4 writes, got %d", sim.Writes)
	}
}

func TestSimScript(t *testing.T) {
	sim := NewSim(DefaultXtalFreq)
	sim.SetScript([]ScriptStep{
		{At: 10 * time.Millisecond, Switch0: Off, Switch1: On},
		{At: 5 * time.Millisecond, Switch0: On, Switch1: Off},
	})

	if sim.Read(Switch0) != Off || sim.Read(Switch1) != Off {
		t.Fatalf("expected both switches released at power on")
	}

	MsDelay(sim, 5)
	if sim.Read(Switch0) != On || sim.Read(Switch1) != Off {
		t.Errorf("expected switch0 pressed after 5ms")
	}

	MsDelay(sim, 5)
	if sim.Read(Switch0) != Off || sim.Read(Switch1) != On {
		t.Errorf("expected switch1 pressed after 10ms")
	}
}

func TestSimReadOutputLatch(t *testing.T) {
	sim := NewSim(DefaultXtalFreq)
	sim.Write(PortC, LED4)

	if sim.Read(Pin{PortC, 3}) != High {
		t.Errorf("expected RC3 to read back high")
	}
	if sim.Read(Pin{PortA, 2}) != Low {
		t.Errorf("expected RA2 to read back low")
	}
}

func TestLit(t *testing.T) {
	lit := Lit(LED2|LED6, LED7)

	want := [8]bool{false, true, false, false, false, true, true, false}
	if lit != want {
		t.Errorf("expected %v, got %v", want, lit)
	}

	if all := Lit(AllOnA, AllOnC); all != [8]bool{true, true, true, true, true, true, true, true} {
		t.Errorf("expected every LED lit, got %v", all)
	}
}
