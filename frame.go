package canopen

import (
	"encoding/binary"
	"fmt"
)

// A Frame represents a CANopen frame.
type Frame struct {
	// CobID is the 11-bit communication object identifier – CANopen only uses 11-bit identifiers.
	// Bits 0-6 represent the 7-bit node ID. Bits 7-11 represent the 4-bit message type.
	CobID uint16
	// Rtr represents the Remote Transmit Request flag.
	Rtr bool
	// Data contains up to 8 bytes
	Data []uint8
}

// FrameLengthError indicates a payload that does not fit a CAN data frame.
// Frames carrying such a payload must never reach the transport.
type FrameLengthError struct {
	Length int
}

func (e FrameLengthError) Error() string {
	return fmt.Sprintf("payload of %d bytes exceeds the 8 byte frame limit", e.Length)
}

// ShortFrameError indicates a frame too short to decode.
type ShortFrameError struct {
	Length int
}

func (e ShortFrameError) Error() string {
	return fmt.Sprintf("frame carries %d bytes, expected 8", e.Length)
}

// NewFrame returns a frame with an id and data bytes.
func NewFrame(id uint16, data []uint8) Frame {
	return Frame{
		CobID: id & MaskCobID, // only use first 11 bits
		Data:  data,
	}
}

// Validate returns an error for payloads a CAN data frame cannot carry.
func (frm Frame) Validate() error {
	if len(frm.Data) > 8 {
		return FrameLengthError{Length: len(frm.Data)}
	}

	return nil
}

// MessageType returns the message type.
func (frm Frame) MessageType() uint16 {
	return frm.CobID & MaskMessageType
}

// NodeID returns the node id.
func (frm Frame) NodeID() uint8 {
	return uint8(frm.CobID & MaskNodeID)
}

// ObjectIndex returns the object index addressed by an SDO frame.
func (frm Frame) ObjectIndex() ObjectIndex {
	if len(frm.Data) < 4 {
		return ObjectIndex{}
	}

	return ObjectIndex{
		Index:    binary.LittleEndian.Uint16(frm.Data[1:3]),
		SubIndex: frm.Data[3],
	}
}

// Words splits a full telemetry payload into its four little-endian 16-bit
// fields at byte offsets 0, 2, 4 and 6.
func (frm Frame) Words() ([4]uint16, error) {
	var words [4]uint16
	if len(frm.Data) < 8 {
		return words, ShortFrameError{Length: len(frm.Data)}
	}

	for i := range words {
		words[i] = binary.LittleEndian.Uint16(frm.Data[2*i : 2*i+2])
	}

	return words, nil
}
