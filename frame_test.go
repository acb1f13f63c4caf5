package canopen

import (
	"testing"
)

func TestNewFrameMasksCobID(t *testing.T) {
	frm := NewFrame(0xF7FF, nil)

	if frm.CobID != 0x7FF {
		t.Log("COB-ID not masked to 11 bits", frm.CobID)
		t.FailNow()
	}
}

func TestFrameValidate(t *testing.T) {
	frm := NewFrame(0x601, make([]uint8, 8))
	if err := frm.Validate(); err != nil {
		t.Log("Valid frame rejected", err)
		t.FailNow()
	}

	frm = NewFrame(0x601, make([]uint8, 9))
	err := frm.Validate()
	if err == nil {
		t.Log("Oversized payload accepted")
		t.FailNow()
	}

	lengthErr, ok := err.(FrameLengthError)
	if !ok || lengthErr.Length != 9 {
		t.Log("Unexpected error", err)
		t.FailNow()
	}
}

func TestFrameMessageTypeAndNodeID(t *testing.T) {
	frm := NewFrame(MessageTypeTSDO+0x23, nil)

	if frm.MessageType() != MessageTypeTSDO {
		t.Log("Wrong message type", frm.MessageType())
		t.FailNow()
	}

	if frm.NodeID() != 0x23 {
		t.Log("Wrong node id", frm.NodeID())
		t.FailNow()
	}
}

func TestFrameObjectIndex(t *testing.T) {
	frm := NewFrame(0x581, []uint8{0x60, 0x00, 0x18, 0x01, 0, 0, 0, 0})

	index := frm.ObjectIndex()
	if index.Index != 0x1800 || index.SubIndex != 0x01 {
		t.Log("Wrong object index", index)
		t.FailNow()
	}

	// too short to address anything
	if (Frame{Data: []uint8{0x60}}).ObjectIndex() != (ObjectIndex{}) {
		t.Log("Short frame produced an object index")
		t.FailNow()
	}
}

func TestFrameWords(t *testing.T) {
	frm := NewFrame(0x181, []uint8{0x01, 0x00, 0xFF, 0x0F, 0x34, 0x12, 0xFF, 0xFF})

	words, err := frm.Words()
	if err != nil {
		t.Log("Words failed", err)
		t.FailNow()
	}

	expected := [4]uint16{0x0001, 0x0FFF, 0x1234, 0xFFFF}
	if words != expected {
		t.Log("Wrong words", words, expected)
		t.FailNow()
	}
}

func TestFrameWordsShortPayload(t *testing.T) {
	frm := NewFrame(0x181, []uint8{0x01, 0x02, 0x03})

	_, err := frm.Words()
	if err == nil {
		t.Log("Short payload decoded")
		t.FailNow()
	}

	shortErr, ok := err.(ShortFrameError)
	if !ok || shortErr.Length != 3 {
		t.Log("Unexpected error", err)
		t.FailNow()
	}
}

func TestObjectIndexBytes(t *testing.T) {
	index := NewObjectIndex(0x1A00, 0x02)

	bytes := index.Bytes()
	if len(bytes) != 3 || bytes[0] != 0x00 || bytes[1] != 0x1A || bytes[2] != 0x02 {
		t.Log("Wrong byte layout", bytes)
		t.FailNow()
	}
}
