// Command ring plays the LED patterns on a WS2812 ring, with the mode
// switches on GPIO32 and GPIO33.
package main

import (
	"machine"

	"libdb.so/flasher/board"
	"libdb.so/flasher/esp32"
	"libdb.so/flasher/pattern"
	"libdb.so/flasher/poller"
)

func main() {
	ring := esp32.NewRing(machine.GPIO27, machine.GPIO32, machine.GPIO33)
	ring.Configure(board.DefaultSetup)

	player := pattern.NewPlayer(ring, esp32.Clock{})
	poller.New(ring, player).Run()
}
