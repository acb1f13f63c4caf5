package canopen

import (
	"testing"
)

func TestNMTFrame(t *testing.T) {
	frm := NMTFrame(NMTStart, 0x23)

	if frm.CobID != MessageTypeNMT {
		t.Log("NMT frame on wrong COB-ID", frm.CobID)
		t.FailNow()
	}

	if len(frm.Data) != 2 || frm.Data[0] != 0x01 || frm.Data[1] != 0x23 {
		t.Log("Wrong NMT payload", frm.Data)
		t.FailNow()
	}
}

func TestNMTAddressesEveryNode(t *testing.T) {
	bus := newBusStub()

	nmt := &NMT{Bus: bus}
	nmt.PreOperational(1, 2, 0x23)

	sent := bus.sentFrames()
	if len(sent) != 3 {
		t.Log("Wrong frame count", len(sent))
		t.FailNow()
	}

	nodes := []uint8{1, 2, 0x23}
	for i, frm := range sent {
		if frm.Data[0] != uint8(NMTEnterPreOperational) || frm.Data[1] != nodes[i] {
			t.Log("Wrong command frame", i, frm.Data)
			t.FailNow()
		}
	}
}
