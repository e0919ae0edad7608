// Command ledserial exposes the XIAO's pins to the flasher daemon over USB
// serial.
package main

import (
	"machine"

	"libdb.so/flasher/xiao"
)

func main() {
	d := NewDevice(WrapSerial(machine.Serial), xiao.NewBoard())
	d.Run()
}
