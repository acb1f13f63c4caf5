package canopen

// ObjectIndex addresses one entry in a node's object dictionary.
type ObjectIndex struct {
	Index    uint16
	SubIndex uint8
}

// NewObjectIndex returns an object index from a 2-byte index and 1-byte sub index.
func NewObjectIndex(index uint16, subIndex uint8) ObjectIndex {
	return ObjectIndex{
		Index:    index,
		SubIndex: subIndex,
	}
}

// Bytes returns the index little-endian followed by the sub index, the
// layout SDO frames use.
func (objectIndex ObjectIndex) Bytes() []byte {
	return []byte{
		byte(objectIndex.Index & 0xFF),
		byte(objectIndex.Index >> 8),
		objectIndex.SubIndex,
	}
}
