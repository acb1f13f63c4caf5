package telemetry

import (
	"fmt"
	"time"
)

// Kind selects the decoder applied to a telemetry frame.
type Kind uint8

const (
	Voltage Kind = iota + 1
	Temperature
	Current
)

func (k Kind) String() string {
	switch k {
	case Voltage:
		return "voltage"
	case Temperature:
		return "temperature"
	case Current:
		return "current"
	}
	return "unknown"
}

// ParseKind maps a configuration name onto its Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "voltage":
		return Voltage, nil
	case "temperature":
		return Temperature, nil
	case "current":
		return Current, nil
	}
	return 0, fmt.Errorf("telemetry: unknown kind %q", name)
}

// A Reading is one decoded telemetry frame.
type Reading struct {
	Node uint8
	Kind Kind
	At   time.Time

	// Values holds the four decoded channels: volts, degrees or
	// milliamps depending on Kind.
	Values [4]float64

	// PumpPercent and Flow are derived from current channels 0 and 1.
	// The remaining current channels are unconnected.
	PumpPercent float64
	Flow        float64
}
