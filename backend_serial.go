package flasher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/flasher/board"
	"libdb.so/flasher/ledserial"
)

// serialBoard is a board whose GPIO surface lives on a microcontroller
// running the ledserial bridge. Every packet sent is answered before the
// next one goes out.
type serialBoard struct {
	port    io.ReadWriteCloser
	logger  *slog.Logger
	timeout time.Duration

	packets chan ledserial.OutgoingPacket
	closed  chan struct{}
	close   sync.Once

	latch [2]uint8
	known [2]bool
	err   error
}

var _ board.Board = (*serialBoard)(nil)

func openSerialBoard(cfg SerialConfig, logger *slog.Logger) (*serialBoard, error) {
	port, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: cfg.Baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	return newSerialBoard(port, time.Duration(cfg.ReadTimeout), logger), nil
}

func newSerialBoard(port io.ReadWriteCloser, timeout time.Duration, logger *slog.Logger) *serialBoard {
	return &serialBoard{
		port:    port,
		logger:  logger,
		timeout: timeout,
		packets: make(chan ledserial.OutgoingPacket),
		closed:  make(chan struct{}),
	}
}

// Close closes the serial port. Pending and future requests fail.
func (b *serialBoard) Close() error {
	var err error
	b.close.Do(func() {
		close(b.closed)
		err = b.port.Close()
	})
	return err
}

const (
	// eofBackoff is how long to wait after reading nothing.
	eofBackoff = 20 * time.Millisecond
	// maxEOFs is how many reads in a row may come back empty before the
	// stream is considered gone.
	maxEOFs = 50
)

// errStreamClosed is returned by readPackets once the port stops yielding
// any data.
var errStreamClosed = errors.New("serial stream closed")

// readPackets reads packets from the board until ctx is done. Log packets
// are logged here, everything else is handed to whoever is awaiting a reply.
func (b *serialBoard) readPackets(ctx context.Context) error {
	var eofs int

	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(b.port)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A short read indicates a timeout. A port that keeps returning
			// nothing has been unplugged.
			if errors.Is(err, io.EOF) {
				if eofs++; eofs >= maxEOFs {
					b.Close()
					return errStreamClosed
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-b.closed:
					return errStreamClosed
				case <-time.After(eofBackoff):
					continue
				}
			}
			return errors.Wrap(err, "failed to read packet")
		}
		eofs = 0

		b.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		if p, ok := p.(ledserial.LogPacket); ok {
			b.logger.Info(
				"received log packet from controller",
				"message", p.Message)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case b.packets <- p:
			// ok
		}
	}

	return ctx.Err()
}

func (b *serialBoard) Configure(setup board.Setup) error {
	err := b.request(ledserial.ConfigurePacket{
		ComparatorMode: setup.ComparatorMode,
		AnalogSelect:   setup.AnalogSelect,
		TrisA:          setup.TrisA,
		TrisC:          setup.TrisC,
	}, nil)
	if err != nil {
		return err
	}

	b.known = [2]bool{}
	return nil
}

func (b *serialBoard) Write(p board.Port, value uint8) {
	if b.err != nil {
		return
	}

	// The latch only changes through us, so an identical write is a no-op.
	if b.known[p] && b.latch[p] == value {
		return
	}

	err := b.request(ledserial.WritePortPacket{Port: uint8(p), Value: value}, nil)
	if err != nil {
		b.err = errors.Wrapf(err, "failed to write %s", p)
		return
	}

	b.latch[p] = value
	b.known[p] = true
}

func (b *serialBoard) Read(pin board.Pin) board.Level {
	if b.err != nil {
		return board.Off
	}

	var value uint8
	err := b.request(ledserial.ReadPortPacket{Port: uint8(pin.Port)}, func(p ledserial.OutgoingPacket) bool {
		v, ok := p.(ledserial.PortValuePacket)
		if !ok || v.Port != uint8(pin.Port) {
			return false
		}
		value = v.Value
		return true
	})
	if err != nil {
		b.err = errors.Wrapf(err, "failed to read %s", pin.Port)
		return board.Off
	}

	return board.Level(value&(1<<pin.Bit) != 0)
}

func (b *serialBoard) Err() error {
	return b.err
}

// request sends p and waits for its reply. If reply is nil, an ack for p is
// expected; otherwise reply reports whether the packet it is given answers p.
func (b *serialBoard) request(p ledserial.IncomingPacket, reply func(ledserial.OutgoingPacket) bool) error {
	b.logger.Debug(
		"writing packet",
		"type", p.Type())

	if err := ledserial.WriteIncomingPacket(b.port, p); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", p.Type())
	}

	if reply == nil {
		reply = func(out ledserial.OutgoingPacket) bool {
			ack, ok := out.(ledserial.AckPacket)
			return ok && ack.IncomingPacketType == p.Type()
		}
	}

	timeout := time.NewTimer(b.timeout)
	defer timeout.Stop()

	for {
		select {
		case out := <-b.packets:
			switch out := out.(type) {
			case ledserial.ErrorPacket:
				b.logger.Warn(
					"received error packet from controller",
					"message", out.Message)
				return fmt.Errorf("controller reported error: %s", out.Message)

			case ledserial.PanicPacket:
				b.logger.Error("controller unrecoverably panicked")
				return errors.New("controller panicked")
			}

			if reply(out) {
				return nil
			}

			b.logger.Debug(
				"ignoring unexpected packet from controller",
				"type", out.Type(),
				"awaiting", p.Type())

		case <-timeout.C:
			return fmt.Errorf("timed out waiting for reply to %s packet", p.Type())

		case <-b.closed:
			return errors.New("serial port closed")
		}
	}
}
