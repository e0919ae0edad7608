// Package flasher runs the LED pattern poll loop on a host, against a
// simulated device, a serial-attached board or Linux GPIO lines.
package flasher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/flasher/board"
	"libdb.so/flasher/monitor"
	"libdb.so/flasher/pattern"
	"libdb.so/flasher/poller"
)

// Daemon is the main flasher daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
	frames io.Writer
}

// NewDaemon creates a new flasher daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// DrawFrames makes the daemon draw every LED frame held by the simulated
// device to w, one line per frame. It has no effect on other backends.
func (d *Daemon) DrawFrames(w io.Writer) {
	d.frames = w
}

// Run starts the daemon. It blocks until the given context is canceled or,
// for the sim backend, until the configured duration has been simulated.
//
// A pattern that has started is always played to the end. Once the context
// is canceled, delays return immediately so that the pattern finishes
// without holding the daemon up.
func (d *Daemon) Run(ctx context.Context) error {
	return (&internalDaemon{Daemon: d}).Run(ctx)
}

type internalDaemon struct {
	*Daemon
	backend *backend
}

func (d *internalDaemon) Run(ctx context.Context) error {
	be, err := d.openBackend()
	if err != nil {
		return errors.Wrap(err, "failed to open backend")
	}
	d.backend = be

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing backend", "backend", d.cfg.Backend)
		if err := be.close(); err != nil {
			return errors.Wrap(err, "failed to close backend")
		}
		return nil
	})

	if be.run != nil {
		errg.Go(func() error {
			return be.run(ctx)
		})
	}

	if addr := d.cfg.Monitor.Listen; addr != "" {
		srv := monitor.NewServer(d.logger)
		be.board = &monitoredBoard{
			Board:   be.board,
			monitor: srv,
			elapsed: be.elapsed,
		}
		errg.Go(func() error {
			return srv.ListenAndServe(ctx, addr)
		})
	}

	errg.Go(func() error {
		defer cancel()
		return d.mainLoop(ctx)
	})

	return errg.Wait()
}

func (d *internalDaemon) mainLoop(ctx context.Context) error {
	d.logger.Debug("configuring board", "setup", fmt.Sprintf("%+v", board.DefaultSetup))
	if err := d.backend.board.Configure(board.DefaultSetup); err != nil {
		return errors.Wrap(err, "failed to configure board")
	}

	clock := cancelableClock{Clock: d.backend.clock, ctx: ctx}
	player := pattern.NewPlayer(d.backend.board, clock)

	var playing bool
	player.OnSequence = func(name string) {
		if playing {
			d.logger.Debug("playing sequence", "sequence", name)
		}
	}

	loop := poller.New(d.backend.board, player)

	last := poller.Mode(255)
	loop.Observe = func(mode poller.Mode) {
		playing = mode == poller.PatternOne || mode == poller.PatternTwo
		if mode == last {
			return
		}
		last = mode

		switch mode {
		case poller.Undefined:
			d.logger.Debug(
				"both switches pressed, leaving LEDs as they are",
				"mode", mode)
		default:
			d.logger.Info("mode changed", "mode", mode)
		}
	}

	for ctx.Err() == nil {
		loop.Step()

		if err := d.backend.board.Err(); err != nil {
			if ctx.Err() != nil {
				break
			}
			return errors.Wrap(err, "board failed")
		}

		if d.backend.done != nil && d.backend.done() {
			d.logger.Info("simulation finished")
			return nil
		}
	}

	return ctx.Err()
}

type framePublisher interface {
	Publish(monitor.Frame)
}

var _ framePublisher = (*monitor.Server)(nil)

// monitoredBoard publishes every register write to the LED monitor.
type monitoredBoard struct {
	board.Board
	monitor framePublisher
	elapsed func() time.Duration
	latch   [2]uint8
}

func (b *monitoredBoard) Write(p board.Port, value uint8) {
	b.Board.Write(p, value)
	b.latch[p] = value
	b.monitor.Publish(monitor.NewFrame(b.elapsed(), b.latch[board.PortA], b.latch[board.PortC]))
}

// cancelableClock stops delaying once ctx is done.
type cancelableClock struct {
	board.Clock
	ctx context.Context
}

func (c cancelableClock) Delay1ms() {
	if c.ctx.Err() == nil {
		c.Clock.Delay1ms()
	}
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%10.3fs", d.Seconds())
}
