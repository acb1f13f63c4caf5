// Package canopen implements the narrow CANopen profile spoken by the skid's
// IO modules: expedited SDO configuration, event-driven transmit PDOs and NMT
// state control over a shared bus.
package canopen

const (
	MessageTypeNMT   uint16 = 0x000
	MessageTypeSync  uint16 = 0x080
	MessageTypeTPDO1 uint16 = 0x180
	MessageTypeTPDO2 uint16 = 0x280
	MessageTypeTPDO3 uint16 = 0x380
	MessageTypeTPDO4 uint16 = 0x480
	// MessageTypeTSDO represents the type of SDO server response messages
	MessageTypeTSDO uint16 = 0x580
	// MessageTypeRSDO represents the type of SDO client request messages
	MessageTypeRSDO      uint16 = 0x600
	MessageTypeHeartbeat uint16 = 0x700
)

// MaxNodeID defines the highest node id
const MaxNodeID uint8 = 0x7F

const (
	// MaskCobID is used to get the 11 COB-ID bits from an uint16
	MaskCobID = 0x7FF
	// MaskNodeID is used to extract the 7-bit node id from the COB-ID
	MaskNodeID = 0x7F
	// MaskMessageType is used to extract the 4-bit message type from the COB-ID
	MaskMessageType = 0x780

	// MaskIDSff is used to extract the valid 11-bit CAN identifier bits from the frame ID of a standard frame format.
	MaskIDSff = 0x000007FF
	// MaskRtr is used to extract the rtr flag (1 = rtr frame) from the frame ID
	MaskRtr = 0x40000000
)
