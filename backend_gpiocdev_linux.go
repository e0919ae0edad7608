//go:build linux

package flasher

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"libdb.so/flasher/board"
)

const gpioConsumer = "flasher"

// gpiocdevBoard drives the LEDs and samples the switches through Linux GPIO
// lines. Each register bit maps to one line offset.
type gpiocdevBoard struct {
	cfg    GPIOCDevConfig
	logger *slog.Logger

	outputs [2]*gpiocdevPort
	inputs  map[board.Pin]*gpiocdev.Line

	latch [2]uint8
	err   error
}

// gpiocdevPort is the set of output lines of one port.
type gpiocdevPort struct {
	lines  *gpiocdev.Lines
	bits   []uint8
	values []int
}

var _ board.Board = (*gpiocdevBoard)(nil)

func openGPIOCDevBoard(cfg GPIOCDevConfig, logger *slog.Logger) (*gpiocdevBoard, error) {
	// Lines are requested on Configure, once the directions are known.
	chip, err := gpiocdev.NewChip(cfg.Chip, gpiocdev.WithConsumer(gpioConsumer))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", cfg.Chip)
	}
	defer chip.Close()

	logger.Debug(
		"opened gpio chip",
		"chip", chip.Name,
		"label", chip.Label,
		"lines", chip.Lines())

	return &gpiocdevBoard{
		cfg:    cfg,
		logger: logger,
		inputs: make(map[board.Pin]*gpiocdev.Line),
	}, nil
}

func (b *gpiocdevBoard) Configure(setup board.Setup) error {
	if err := b.release(); err != nil {
		return err
	}

	for _, port := range []board.Port{board.PortA, board.PortC} {
		tris := setup.Tris(port)

		var out gpiocdevPort
		var offsets []int

		for bit := uint8(0); bit < 8; bit++ {
			pin := board.Pin{Port: port, Bit: bit}
			offset := b.cfg.Offset(pin)
			if offset < 0 {
				continue
			}

			if tris&(1<<bit) != 0 {
				l, err := gpiocdev.RequestLine(b.cfg.Chip, offset,
					gpiocdev.AsInput,
					gpiocdev.WithPullUp,
					gpiocdev.WithConsumer(gpioConsumer))
				if err != nil {
					return errors.Wrapf(err, "failed to request input line %d for %s", offset, port)
				}
				b.inputs[pin] = l
				continue
			}

			out.bits = append(out.bits, bit)
			offsets = append(offsets, offset)
		}

		if len(offsets) == 0 {
			continue
		}

		out.values = make([]int, len(offsets))
		lines, err := gpiocdev.RequestLines(b.cfg.Chip, offsets,
			gpiocdev.AsOutput(out.values...),
			gpiocdev.WithConsumer(gpioConsumer))
		if err != nil {
			return errors.Wrapf(err, "failed to request output lines %v for %s", offsets, port)
		}
		out.lines = lines

		b.outputs[port] = &out
		b.logger.Debug(
			"requested gpio lines",
			"port", port,
			"outputs", offsets,
			"tris", fmt.Sprintf("%06b", tris))
	}

	b.latch = [2]uint8{}
	return nil
}

func (b *gpiocdevBoard) Write(p board.Port, value uint8) {
	b.latch[p] = value

	out := b.outputs[p]
	if out == nil || b.err != nil {
		return
	}

	for i, bit := range out.bits {
		out.values[i] = int(value>>bit) & 1
	}

	if err := out.lines.SetValues(out.values); err != nil {
		b.err = errors.Wrapf(err, "failed to write %s", p)
	}
}

func (b *gpiocdevBoard) Read(pin board.Pin) board.Level {
	l, ok := b.inputs[pin]
	if !ok {
		return board.Level(b.latch[pin.Port]&(1<<pin.Bit) != 0)
	}
	if b.err != nil {
		return board.Off
	}

	v, err := l.Value()
	if err != nil {
		b.err = errors.Wrapf(err, "failed to read %s bit %d", pin.Port, pin.Bit)
		return board.Off
	}

	return board.Level(v != 0)
}

func (b *gpiocdevBoard) Err() error {
	return b.err
}

// Close reverts every requested line to an input and releases it.
func (b *gpiocdevBoard) Close() error {
	return b.release()
}

func (b *gpiocdevBoard) release() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for i, out := range b.outputs {
		if out == nil {
			continue
		}
		keep(out.lines.Reconfigure(gpiocdev.AsInput))
		keep(out.lines.Close())
		b.outputs[i] = nil
	}

	for pin, l := range b.inputs {
		keep(l.Close())
		delete(b.inputs, pin)
	}

	if firstErr != nil {
		return errors.Wrap(firstErr, "failed to release gpio lines")
	}
	return nil
}
