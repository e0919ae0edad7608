package main

import (
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// The onboard RGB LED shows when the bridge is waiting for a packet.
var (
	mainLED            ws2812.Device
	mainLEDPower       = machine.GPIO11
	mainLEDInitialized bool
)

func initMainLED() {
	if mainLEDInitialized {
		return
	}

	// https://wiki.seeedstudio.com/XIAO-RP2040-with-Arduino/
	mainLEDPower.Configure(machine.PinConfig{Mode: machine.PinOutput})
	mainLEDPower.Low()

	machine.GPIO12.Configure(machine.PinConfig{Mode: machine.PinOutput})
	mainLED = ws2812.New(machine.GPIO12)
	mainLEDInitialized = true
}

func turnOnMainLED(r, g, b uint8) {
	initMainLED()
	mainLEDPower.High()
	// The onboard LED takes GRB.
	mainLED.WriteByte(g)
	mainLED.WriteByte(r)
	mainLED.WriteByte(b)
}

func turnOffMainLED() {
	initMainLED()
	mainLEDPower.Low()
}
