// Package telemetry turns the raw transmit PDO traffic of the IO
// modules into engineering units and hands the results to a consumer
// through a bounded queue.
package telemetry

// DefaultResolution is the ADC width of the installed voltage module.
const DefaultResolution uint = 16

// DefaultFlowFullScale is the flow meter reading at 20 mA, in kg/h.
const DefaultFlowFullScale = 32.8

// InvalidTemperature is the open-circuit marker of the thermocouple
// module, raw 0x8000 in tenths of a degree.
const InvalidTemperature = -3276.8

// Volts maps a raw ADC code onto the 0-5 V input range. Codes below
// zero clip to 0 V and codes at or above the resolution ceiling clip
// to 5 V.
func Volts(raw int, resolution uint) float64 {
	maxCode := 1<<resolution - 1
	if raw <= 0 {
		return 0
	}
	if raw >= maxCode {
		return 5.0
	}

	return float64(raw) / float64(maxCode) * 5.0
}

// Celsius converts a raw thermocouple code counted in tenths of a degree.
func Celsius(raw int16) float64 {
	return float64(raw) * 0.1
}

// Milliamps converts a raw current loop code over the module's 0-50 mA
// span.
func Milliamps(raw uint16) float64 {
	return float64(raw) / 65535.0 * 50.0
}

// loopFraction places a 4-20 mA signal in the unit interval, clipping
// readings outside the loop range to the nearest endpoint.
func loopFraction(mA float64) float64 {
	if mA < 4 {
		mA = 4
	} else if mA > 20 {
		mA = 20
	}

	return (mA - 4) / 16.0
}

// MilliampsToPercent scales a 4-20 mA signal to 0-100 percent.
func MilliampsToPercent(mA float64) float64 {
	return loopFraction(mA) * 100.0
}

// MilliampsToFlow scales a 4-20 mA flow meter signal to its full scale
// reading.
func MilliampsToFlow(mA float64, fullScale float64) float64 {
	return loopFraction(mA) * fullScale
}
