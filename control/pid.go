// Package control carries the closed-loop pieces of the skid: the pump
// speed controller and the alarm limit ladder.
package control

// PID is a positional controller with output clamping, derivative on
// measurement and conditional anti-windup: the integral freezes while
// the output sits on a limit and the error keeps pushing it there.
type PID struct {
	Kp, Ki, Kd float64
	Setpoint   float64
	OutMin     float64
	OutMax     float64

	integral     float64
	prevMeasured float64
}

// NewPID returns a controller clamped to the 0-100 output range.
func NewPID(kp, ki, kd float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, OutMax: 100}
}

// Reset clears the accumulated state.
func (c *PID) Reset() {
	c.integral = 0
	c.prevMeasured = c.Setpoint
}

// Update advances the loop by dt with the latest measurement and
// returns the clamped output.
func (c *PID) Update(measured float64, dt float64) float64 {
	if dt <= 0 {
		dt = 1
	}

	err := c.Setpoint - measured
	pTerm := c.Kp * err
	dTerm := c.Kd * (measured - c.prevMeasured) / dt

	provisional := saturate(pTerm+c.Ki*c.integral+dTerm, c.OutMin, c.OutMax)
	if !((provisional >= c.OutMax && err > 0) || (provisional <= c.OutMin && err < 0)) {
		c.integral += err * dt
	}

	output := pTerm + c.Ki*c.integral + dTerm
	c.prevMeasured = measured

	return saturate(output, c.OutMin, c.OutMax)
}

func saturate(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
