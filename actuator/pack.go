// Package actuator builds and refreshes the command frames of the
// output modules: the pump drive and the solenoid valves.
package actuator

import (
	"encoding/binary"

	"github.com/skidworks/canopen"
)

// MaxSpeed is the speed ceiling of the pump drive.
const MaxSpeed = 1000

// fullScale drives an output channel fully on.
const fullScale uint16 = 0xFFFF

// PackWords packs four 16-bit fields into the 8-byte little-endian
// payload shared by every output module frame.
func PackWords(a, b, c, d uint16) []uint8 {
	data := make([]uint8, 8)
	binary.LittleEndian.PutUint16(data[0:2], a)
	binary.LittleEndian.PutUint16(data[2:4], b)
	binary.LittleEndian.PutUint16(data[4:6], c)
	binary.LittleEndian.PutUint16(data[6:8], d)
	return data
}

// Setpoint is one pump command. The drive reads a speed word and a
// full-scale sentinel on the enable channel.
type Setpoint struct {
	Enabled bool
	Speed   int
}

// Raw returns the two 16-bit output fields of the setpoint with the
// speed clipped into 0-MaxSpeed.
func (sp Setpoint) Raw() (speed uint16, enable uint16) {
	s := sp.Speed
	if s < 0 {
		s = 0
	}
	if s > MaxSpeed {
		s = MaxSpeed
	}

	if sp.Enabled {
		enable = fullScale
	}

	return uint16(s), enable
}

// Frame builds the pump command frame at a bus address.
func (sp Setpoint) Frame(cobID uint16) canopen.Frame {
	speed, enable := sp.Raw()
	return canopen.NewFrame(cobID, PackWords(speed, enable, 0, 0))
}

func digitalWord(on bool) uint16 {
	if on {
		return fullScale
	}
	return 0
}

// PackDigital builds the four-channel digital output payload, each
// boolean driving one channel at full scale.
func PackDigital(o1, o2, o3, o4 bool) []uint8 {
	return PackWords(digitalWord(o1), digitalWord(o2), digitalWord(o3), digitalWord(o4))
}
