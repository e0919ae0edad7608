package flasher

import (
	"context"
	"fmt"
	"time"

	"libdb.so/flasher/board"
)

// backend is an opened GPIO surface together with its clock.
type backend struct {
	board board.Board
	clock board.Clock

	// run, if set, is run alongside the main loop until ctx is done.
	run func(ctx context.Context) error
	// done, if set, reports that the backend has nothing more to do.
	done func() bool
	// elapsed returns the time since the backend was opened.
	elapsed func() time.Duration
	close   func() error
}

func (d *internalDaemon) openBackend() (*backend, error) {
	xtal := board.Oscillator(d.cfg.XtalFreq)

	switch d.cfg.Backend {
	case SimBackend:
		return d.openSim(xtal), nil

	case SerialBackend:
		b, err := openSerialBoard(d.cfg.Serial, d.logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			board:   b,
			clock:   board.HostClock{Xtal: xtal},
			run:     b.readPackets,
			elapsed: sinceNow(),
			close:   b.Close,
		}, nil

	case GPIOCDevBackend:
		b, err := openGPIOCDevBoard(d.cfg.GPIOCDev, d.logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			board:   b,
			clock:   board.HostClock{Xtal: xtal},
			elapsed: sinceNow(),
			close:   b.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", d.cfg.Backend)
	}
}

func (d *internalDaemon) openSim(xtal board.Oscillator) *backend {
	sim := board.NewSim(xtal)
	sim.Osc = board.Oscillator(d.cfg.Sim.Oscillator)

	steps := make([]board.ScriptStep, len(d.cfg.Sim.Steps))
	for i, step := range d.cfg.Sim.Steps {
		steps[i] = board.ScriptStep{
			At:      time.Duration(step.At),
			Switch0: step.Switch0.Level(),
			Switch1: step.Switch1.Level(),
		}
	}
	sim.SetScript(steps)

	sim.OnHold = func(a, c uint8) {
		if d.frames == nil {
			return
		}
		fmt.Fprintf(d.frames, "%s %s\n", formatElapsed(sim.Elapsed), LEDsFromPorts(a, c))
	}

	duration := time.Duration(d.cfg.Sim.Duration)
	d.logger.Debug(
		"simulating device",
		"xtal", d.cfg.XtalFreq,
		"oscillator", d.cfg.Sim.Oscillator,
		"duration", duration,
		"steps", len(steps))

	return &backend{
		board:   sim,
		clock:   sim,
		done:    func() bool { return sim.Elapsed >= duration },
		elapsed: func() time.Duration { return sim.Elapsed },
		close:   func() error { return nil },
	}
}

func sinceNow() func() time.Duration {
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}
