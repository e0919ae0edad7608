package flasher

import (
	"io"

	"libdb.so/flasher/board"
)

// LEDs is the on/off state of the eight LEDs, in ring order starting at LED1.
type LEDs [8]bool

// LEDsFromPorts decodes the register values into LED states.
func LEDsFromPorts(a, c uint8) LEDs {
	return LEDs(board.Lit(a, c))
}

// Count returns the number of LEDs that are on.
func (l LEDs) Count() int {
	var n int
	for _, on := range l {
		if on {
			n++
		}
	}
	return n
}

// String draws the ring as a row of eight cells, '#' for on and '.' for off.
func (l LEDs) String() string {
	var b [8]byte
	for i, on := range l {
		if on {
			b[i] = '#'
		} else {
			b[i] = '.'
		}
	}
	return string(b[:])
}

// WriteTo implements io.WriterTo. It writes the drawn ring followed by a
// newline.
func (l LEDs) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, l.String()+"\n")
	return int64(n), err
}
