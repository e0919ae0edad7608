package main

import (
	"io"
	"machine"
	"runtime"
	"time"
)

// SerialReadWriter is a serial device the bridge can run packets over.
type SerialReadWriter interface {
	io.ReadWriter
}

type serialIO struct {
	machine.Serialer
}

// WrapSerial wraps a machine.Serialer in an io.ReadWriter whose Read waits
// for at least one byte.
func WrapSerial(serial machine.Serialer) SerialReadWriter {
	return serialIO{Serialer: serial}
}

func (s serialIO) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	for s.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}

	var n int
	for n < len(b) && s.Buffered() > 0 {
		c, err := s.ReadByte()
		if err != nil {
			return n, err
		}
		b[n] = c
		n++
	}

	return n, nil
}

func (s serialIO) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := s.WriteByte(c); err != nil {
			return i, err
		}
	}
	runtime.Gosched()
	return len(b), nil
}
