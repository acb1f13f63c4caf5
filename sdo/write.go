package sdo

import (
	"encoding/binary"
	"fmt"

	"github.com/skidworks/canopen"
)

// downloadSpecifiers holds the expedited download initiate byte per
// payload width. The width of a value is carried in the specifier, one
// byte value per width.
var downloadSpecifiers = map[int]byte{
	1: 0x2F,
	2: 0x2B,
	3: 0x27,
	4: 0x23,
}

// WriteSizeError indicates a value that cannot travel in a single
// expedited frame.
type WriteSizeError struct {
	Value uint32
	Size  int
}

func (e WriteSizeError) Error() string {
	return fmt.Sprintf("value %#x does not fit an expedited write of %d bytes", e.Value, e.Size)
}

// Write represents a single expedited SDO download: one configuration
// value of 1-4 bytes written to an object dictionary entry – download
// because the receiving node downloads the value.
type Write struct {
	Node        uint8
	ObjectIndex canopen.ObjectIndex
	Value       uint32
	Size        int
}

// RequestCobID returns the COB-ID write requests travel on.
func (write Write) RequestCobID() uint16 {
	return canopen.MessageTypeRSDO + uint16(write.Node)
}

// ResponseCobID returns the COB-ID the node acknowledges on.
func (write Write) ResponseCobID() uint16 {
	return canopen.MessageTypeTSDO + uint16(write.Node)
}

// Frame encodes the write: command specifier, object index little-endian,
// sub index, value little-endian, zero padding. A size outside 1-4 or a
// value too wide for the declared size is a protocol violation and no
// frame is produced for it.
func (write Write) Frame() (canopen.Frame, error) {
	specifier, ok := downloadSpecifiers[write.Size]
	if !ok {
		return canopen.Frame{}, WriteSizeError{Value: write.Value, Size: write.Size}
	}

	if write.Size < 4 && write.Value >= 1<<(8*uint(write.Size)) {
		return canopen.Frame{}, WriteSizeError{Value: write.Value, Size: write.Size}
	}

	value := make([]byte, 4)
	binary.LittleEndian.PutUint32(value, write.Value)

	fdata := append([]byte{specifier}, write.ObjectIndex.Bytes()...)
	fdata = append(fdata, value[:write.Size]...)

	// CiA301 Standard expects all (8) bytes to be sent
	return canopen.NewFrame(write.RequestCobID(), Pad(fdata, 8)), nil
}
