package sdo

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/skidworks/canopen"
)

// Read represents a single expedited SDO upload: one object dictionary
// entry of up to 4 bytes read from a node – upload because the node
// uploads the value to the requester.
type Read struct {
	Node        uint8
	ObjectIndex canopen.ObjectIndex
	Timeout     time.Duration
}

// RequestCobID returns the COB-ID read requests travel on.
func (read Read) RequestCobID() uint16 {
	return canopen.MessageTypeRSDO + uint16(read.Node)
}

// ResponseCobID returns the COB-ID the node answers on.
func (read Read) ResponseCobID() uint16 {
	return canopen.MessageTypeTSDO + uint16(read.Node)
}

// Frame encodes the upload request.
func (read Read) Frame() canopen.Frame {
	fdata := append([]byte{byte(InitiateUploadRequest) << 5}, read.ObjectIndex.Bytes()...)

	// CiA301 Standard expects all (8) bytes to be sent
	return canopen.NewFrame(read.RequestCobID(), Pad(fdata, 8))
}

// Do reads the entry and returns its data bytes.
func (read Read) Do(bus canopen.Bus) ([]byte, error) {
	// Do not allow multiple messages for the same device
	key := strconv.Itoa(int(read.RequestCobID()))
	canopen.Lock.Lock(key)
	defer canopen.Lock.Unlock(key)

	c := &canopen.Client{Bus: bus, Timeout: read.Timeout}
	resp, err := c.Do(canopen.NewRequest(read.Frame(), read.ResponseCobID()))
	if err != nil {
		return nil, err
	}

	frame := resp.Frame
	if len(frame.Data) < 8 {
		return nil, canopen.ShortFrameError{Length: len(frame.Data)}
	}

	scs := ResponseSpecifier(frame.Data[0])
	if scs != InitiateUploadResponse {
		if scs == AbortTransfer {
			return nil, TransferAbort{
				AbortCode: GetAbortCodeBytes(frame),
			}
		}

		return nil, UnexpectedSCSResponse{
			Expected:  uint8(InitiateUploadResponse),
			Actual:    uint8(scs),
			AbortCode: GetAbortCodeBytes(frame),
		}
	}

	// Check if this is the correct response for the requested message
	if frame.ObjectIndex() != read.ObjectIndex {
		return nil, TransferAbort{}
	}

	if !HasBit(frame.Data[0], 1) { // e = 0?
		return nil, SegmentedResponse{}
	}

	// number of segment bytes with no data
	var n uint8
	if HasBit(frame.Data[0], 0) { // s = 1?
		n = (frame.Data[0] >> 2) & 0x3
	}

	return frame.Data[4 : 8-n], nil
}

// Uint32 reads the entry and decodes its bytes as an unsigned
// little-endian integer.
func (read Read) Uint32(bus canopen.Bus) (uint32, error) {
	data, err := read.Do(bus)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(Pad(data, 4)), nil
}
