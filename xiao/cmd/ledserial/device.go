package main

import (
	"fmt"

	"libdb.so/flasher/board"
	"libdb.so/flasher/ledserial"
	"libdb.so/flasher/xiao"
)

// Device bridges the ledserial protocol onto the board's pins.
type Device struct {
	serial SerialReadWriter
	board  *xiao.Board
}

// NewDevice creates a new device.
func NewDevice(serial SerialReadWriter, b *xiao.Board) *Device {
	return &Device{
		serial: serial,
		board:  b,
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	d.log("ready")

	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
		}
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	turnOnMainLED(0, 0, 32)
	p, err := ledserial.ReadIncomingPacket(d.serial)
	turnOffMainLED()
	return p, err
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.ConfigurePacket:
		err := d.board.Configure(board.Setup{
			ComparatorMode: p.ComparatorMode,
			AnalogSelect:   p.AnalogSelect,
			TrisA:          p.TrisA,
			TrisC:          p.TrisC,
		})
		if err != nil {
			return err
		}
		d.log(fmt.Sprintf("configured, tris %06b %06b", p.TrisA, p.TrisC))

	case ledserial.WritePortPacket:
		port, err := checkPort(p.Port)
		if err != nil {
			return err
		}
		d.board.Write(port, p.Value)

	case ledserial.ReadPortPacket:
		port, err := checkPort(p.Port)
		if err != nil {
			return err
		}
		d.sendPacket(ledserial.PortValuePacket{
			Port:  p.Port,
			Value: d.board.ReadPort(port),
		})
		return nil

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}

func checkPort(p uint8) (board.Port, error) {
	switch port := board.Port(p); port {
	case board.PortA, board.PortC:
		return port, nil
	default:
		return 0, fmt.Errorf("invalid port %d", p)
	}
}
