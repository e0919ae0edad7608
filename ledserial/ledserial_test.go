package ledserial

import (
	"bytes"
	"testing"
)

func TestIncomingPacketRoundTrip(t *testing.T) {
	packets := []IncomingPacket{
		ConfigurePacket{ComparatorMode: 7, AnalogSelect: 0, TrisA: 0b010001, TrisC: 0},
		WritePortPacket{Port: 1, Value: 0b011111},
		ReadPortPacket{Port: 0},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		if err := WriteIncomingPacket(&buf, p); err != nil {
			t.Fatalf("failed to write %s: %v", p.Type(), err)
		}
	}

	for _, want := range packets {
		got, err := ReadIncomingPacket(&buf)
		if err != nil {
			t.Fatalf("failed to read %s: %v", want.Type(), err)
		}
		if got != want {
			t.Errorf("expected %#v, got %#v", want, got)
		}
	}

	if buf.Len() != 0 {
		t.Errorf("expected buffer to be drained, %d bytes left", buf.Len())
	}
}

func TestOutgoingPacketRoundTrip(t *testing.T) {
	packets := []OutgoingPacket{
		AckPacket{IncomingPacketType: TypeConfigurePacket},
		PortValuePacket{Port: 0, Value: 0b010001},
		LogPacket{Message: "configured"},
		ErrorPacket{Message: "invalid port 3"},
		PanicPacket{},
	}

	var buf bytes.Buffer
	for _, p := range packets {
		if err := WriteOutgoingPacket(&buf, p); err != nil {
			t.Fatalf("failed to write %s: %v", p.Type(), err)
		}
	}

	for _, want := range packets {
		got, err := ReadOutgoingPacket(&buf)
		if err != nil {
			t.Fatalf("failed to read %s: %v", want.Type(), err)
		}
		if got != want {
			t.Errorf("expected %#v, got %#v", want, got)
		}
	}
}

func TestChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIncomingPacket(&buf, WritePortPacket{Port: 0, Value: 0b100000}); err != nil {
		t.Fatal(err)
	}

	b := buf.Bytes()
	b[2] ^= 0xFF // flip the value byte

	if _, err := ReadIncomingPacket(bytes.NewReader(b)); err == nil {
		t.Errorf("expected checksum error, got nil")
	}
}

func TestUnknownPacketType(t *testing.T) {
	if _, err := ReadOutgoingPacket(bytes.NewReader([]byte{0xEE})); err == nil {
		t.Errorf("expected error for unknown packet type")
	}
}
