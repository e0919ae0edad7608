package board

import (
	"runtime"
	"time"
)

// HostClock is a Clock backed by the host's monotonic clock. Like the
// firmware's delay loop it spins instead of sleeping.
type HostClock struct {
	// Xtal is the frequency the delay is calibrated for. The host always runs
	// at its true speed, so this only scales the length of one delay.
	Xtal Oscillator
}

var _ Clock = HostClock{}

// Delay1ms implements Clock.
func (c HostClock) Delay1ms() {
	xtal := c.Xtal
	if xtal == 0 {
		xtal = DefaultXtalFreq
	}

	d := xtal.Cycles(uint64(xtal.CyclesPerMs()))
	for start := time.Now(); time.Since(start) < d; {
		runtime.Gosched()
	}
}
