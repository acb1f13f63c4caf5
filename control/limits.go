package control

// Limits is one measurement's alarm ladder. The warning thresholds sit
// inside the shutdown thresholds, so a shutdown always implies its
// warning.
type Limits struct {
	LowWarning   float64
	LowShutdown  float64
	HighWarning  float64
	HighShutdown float64
}

// Flags is the outcome of one limit check.
type Flags struct {
	LowWarning   bool
	LowShutdown  bool
	HighWarning  bool
	HighShutdown bool
}

// Check evaluates a process value against the ladder.
func (l Limits) Check(process float64) Flags {
	var f Flags

	if process <= l.LowWarning {
		f.LowWarning = true
		if process <= l.LowShutdown {
			f.LowShutdown = true
		}
	} else if process >= l.HighWarning {
		f.HighWarning = true
		if process >= l.HighShutdown {
			f.HighShutdown = true
		}
	}

	return f
}

// Any reports whether any flag tripped.
func (f Flags) Any() bool {
	return f.LowWarning || f.LowShutdown || f.HighWarning || f.HighShutdown
}

// Shutdown reports whether either shutdown flag tripped.
func (f Flags) Shutdown() bool {
	return f.LowShutdown || f.HighShutdown
}
