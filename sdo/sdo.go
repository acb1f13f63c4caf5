// Package sdo implements the expedited subset of the CANopen SDO
// services: single frame writes and reads of 1-4 byte object dictionary
// entries, plus the acknowledgement policies applied to them.
package sdo

import "github.com/skidworks/canopen"

type ClientCommandSpecifier byte

const (
	InitiateDownloadRequest ClientCommandSpecifier = 1
	InitiateUploadRequest   ClientCommandSpecifier = 2
)

type ServerCommandSpecifier byte

const (
	InitiateDownloadResponse ServerCommandSpecifier = 3
	InitiateUploadResponse   ServerCommandSpecifier = 2

	AbortTransfer ServerCommandSpecifier = 4
)

func HasBit(n uint8, pos uint) bool {
	val := n & (1 << pos)
	return (val > 0)
}

func SetBit(n uint8, pos uint) uint8 {
	n |= (1 << pos)
	return n
}

func GetAbortCodeBytes(frame canopen.Frame) []uint8 {
	if len(frame.Data) >= 8 {
		return frame.Data[4:]
	}
	return []uint8{}
}

func Pad(b []byte, minLength int) []byte {
	for i := len(b); i < minLength; i++ {
		b = append(b, 0)
	}

	return b
}

// ResponseSpecifier extracts the server command specifier from the
// first byte of a response frame.
func ResponseSpecifier(b byte) ServerCommandSpecifier {
	return ServerCommandSpecifier(b >> 5)
}

// ProcessRequestByte splits the first byte of a request frame into the
// client command specifier, the expedited flag, the size flag and the
// count of unused payload bytes.
func ProcessRequestByte(clientData byte) (ClientCommandSpecifier, bool, bool, byte) {
	clientCommandSpecifier := clientData >> 5
	isExpedited := HasBit(clientData, 1)
	hasSize := HasBit(clientData, 0)
	n := (clientData >> 2) & 3
	return ClientCommandSpecifier(clientCommandSpecifier), isExpedited, hasSize, n
}

// ServerResponseByte builds the first byte of a response frame.
func ServerResponseByte(scs ServerCommandSpecifier) byte {
	return byte(scs) << 5
}
