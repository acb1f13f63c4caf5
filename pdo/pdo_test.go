package pdo

import (
	"testing"
)

func TestParameterIndices(t *testing.T) {
	if CommunicationIndex(0) != 0x1800 || CommunicationIndex(3) != 0x1803 {
		t.Log("Wrong communication indices", CommunicationIndex(0), CommunicationIndex(3))
		t.FailNow()
	}

	if MappingIndex(0) != 0x1A00 || MappingIndex(3) != 0x1A03 {
		t.Log("Wrong mapping indices", MappingIndex(0), MappingIndex(3))
		t.FailNow()
	}
}

func TestTransmitCobID(t *testing.T) {
	if TransmitCobID(0, 0x23) != 0x1A3 {
		t.Log("Wrong first message COB-ID", TransmitCobID(0, 0x23))
		t.FailNow()
	}

	if TransmitCobID(3, 0x23) != 0x4A3 {
		t.Log("Wrong fourth message COB-ID", TransmitCobID(3, 0x23))
		t.FailNow()
	}

	if TransmitCobID(0, 1) != 0x181 {
		t.Log("Wrong COB-ID for node 1", TransmitCobID(0, 1))
		t.FailNow()
	}
}

func TestMappingEntry(t *testing.T) {
	if MappingEntry(1) != 0x64010110 {
		t.Log("Wrong entry for channel 1", MappingEntry(1))
		t.FailNow()
	}

	if MappingEntry(16) != 0x64011010 {
		t.Log("Wrong entry for channel 16", MappingEntry(16))
		t.FailNow()
	}
}

func TestCobIDDisable(t *testing.T) {
	gated := CobIDDisable | TransmitCobID(0, 0x23)

	if gated != 0x800001A3 {
		t.Log("Wrong gated COB-ID", gated)
		t.FailNow()
	}
}
