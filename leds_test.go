package flasher

import (
	"bytes"
	"testing"

	"libdb.so/flasher/board"
)

func TestLEDsFromPorts(t *testing.T) {
	tests := []struct {
		a, c  uint8
		drawn string
	}{
		{0, 0, "........"},
		{board.AllOnA, board.AllOnC, "########"},
		{0, board.LED1, "#......."},
		{board.LED2, 0, ".#......"},
		{board.LED5 | board.LED6, 0, "....##.."},
		{0, board.LED3 | board.LED7, "..#...#."},
		// Register A bits never light a register C LED.
		{board.LED7, 0, ".#......"},
	}

	for _, test := range tests {
		leds := LEDsFromPorts(test.a, test.c)
		if s := leds.String(); s != test.drawn {
			t.Errorf("A=%06b C=%06b: expected %s, got %s", test.a, test.c, test.drawn, s)
		}
	}
}

func TestLEDsCount(t *testing.T) {
	if n := LEDsFromPorts(board.AllOnA, board.AllOnC).Count(); n != 8 {
		t.Errorf("expected 8 LEDs on, got %d", n)
	}
	if n := LEDsFromPorts(board.LED2, board.LED1|board.LED8).Count(); n != 3 {
		t.Errorf("expected 3 LEDs on, got %d", n)
	}
}

func TestLEDsWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := LEDsFromPorts(0, board.LED4).WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 9 || buf.String() != "...#....\n" {
		t.Errorf("expected \"...#....\\n\", got %q (%d bytes)", buf.String(), n)
	}
}
