// Package pdo holds the transmit PDO layout of the analog input
// modules: the communication and mapping parameter addresses and the
// values written into them during commissioning.
package pdo

import "github.com/skidworks/canopen"

const (
	// BaseCommunicationIndex is the object index of the first transmit
	// PDO communication parameter record.
	BaseCommunicationIndex uint16 = 0x1800
	// BaseMappingIndex is the object index of the first transmit PDO
	// mapping parameter record.
	BaseMappingIndex uint16 = 0x1A00
)

// Communication parameter record sub indices.
const (
	SubCobID            uint8 = 1
	SubTransmissionType uint8 = 2
	SubInhibitTime      uint8 = 3
	SubEventTimer       uint8 = 5
)

// SubCount is the number-of-entries sub index of a mapping record.
const SubCount uint8 = 0

// CobIDDisable gates a transmit PDO off while set in its COB-ID entry.
// Configuration happens behind the gate and the channel is enabled last.
const CobIDDisable uint32 = 0x80000000

// TransmissionTypeEvent selects event-driven transmission.
const TransmissionTypeEvent uint8 = 0xFF

const (
	// WordsPerMessage is the number of 16-bit channels mapped into one
	// transmit PDO.
	WordsPerMessage = 4
	// MaxChannel is the highest analog input channel of the module family.
	MaxChannel = 16
	// MaxMessages is the number of transmit PDOs a module carries.
	MaxMessages = 4
)

// AnalogInputIndex is the object index of the mapped analog input array.
const AnalogInputIndex uint16 = 0x6401

// CommunicationIndex returns the communication parameter index of
// message i (zero based).
func CommunicationIndex(i int) uint16 {
	return BaseCommunicationIndex + uint16(i)
}

// MappingIndex returns the mapping parameter index of message i (zero based).
func MappingIndex(i int) uint16 {
	return BaseMappingIndex + uint16(i)
}

// TransmitCobID returns the bus address message i of a node transmits on.
func TransmitCobID(i int, node uint8) uint32 {
	return uint32(canopen.MessageTypeTPDO1) + uint32(i)*0x100 + uint32(node)
}

// MappingEntry encodes one mapping record entry: the analog input
// object, the channel sub index and a 16-bit width.
func MappingEntry(channel int) uint32 {
	return uint32(AnalogInputIndex)<<16 | uint32(channel)<<8 | 0x10
}
