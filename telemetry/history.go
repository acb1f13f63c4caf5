package telemetry

import (
	"context"
	"sync"
)

// DefaultHistoryLen is the number of samples kept per measurement.
const DefaultHistoryLen = 100

// Series is a fixed-length sample history, oldest first.
type Series struct {
	mu      sync.Mutex
	samples []float64
	size    int
}

// NewSeries returns a series bounded to size samples.
func NewSeries(size int) *Series {
	if size <= 0 {
		size = DefaultHistoryLen
	}

	return &Series{size: size}
}

// Append records a sample, evicting the oldest when full.
func (s *Series) Append(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, v)
	if len(s.samples) > s.size {
		s.samples = s.samples[1:]
	}
}

// Latest returns the most recent sample, zero when empty.
func (s *Series) Latest() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[len(s.samples)-1]
}

// Len returns the number of recorded samples.
func (s *Series) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Snapshot copies the recorded samples, oldest first.
func (s *Series) Snapshot() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64{}, s.samples...)
}

// temperatureChannels is the number of connected thermocouple inputs.
const temperatureChannels = 3

// Store is the queue consumer. It turns readings into plant values,
// pressures from the voltage channels through their spans, temperatures
// with the open-circuit marker skipped, pump feedback and flow from the
// current channels, and keeps a bounded history of each.
type Store struct {
	// PressureSpans scales voltage channel i from volts to pressure,
	// one span per transmitter.
	PressureSpans []float64

	Pressures    []*Series
	Temperatures []*Series

	mu       sync.Mutex
	pump     float64
	flow     float64
	haveFlow bool
}

// NewStore returns a store with one pressure series per span.
func NewStore(spans []float64, historyLen int) *Store {
	st := &Store{PressureSpans: append([]float64{}, spans...)}

	for range spans {
		st.Pressures = append(st.Pressures, NewSeries(historyLen))
	}
	for i := 0; i < temperatureChannels; i++ {
		st.Temperatures = append(st.Temperatures, NewSeries(historyLen))
	}

	return st
}

// Apply folds one reading into the plant state.
func (st *Store) Apply(r Reading) {
	switch r.Kind {
	case Voltage:
		for i, span := range st.PressureSpans {
			if i >= len(r.Values) {
				break
			}
			st.Pressures[i].Append(r.Values[i] * span)
		}
	case Temperature:
		// the module reports the marker on every channel while probes
		// are absent, such frames carry nothing worth keeping
		invalid := true
		for i := 0; i < temperatureChannels && i < len(r.Values); i++ {
			if r.Values[i] != InvalidTemperature {
				invalid = false
			}
		}
		if invalid {
			return
		}

		for i := 0; i < temperatureChannels && i < len(r.Values); i++ {
			st.Temperatures[i].Append(r.Values[i])
		}
	case Current:
		st.mu.Lock()
		st.pump = r.PumpPercent
		st.flow = r.Flow
		st.haveFlow = true
		st.mu.Unlock()
	}
}

// PumpFeedback returns the latest pump feedback percent and flow.
func (st *Store) PumpFeedback() (percent float64, flow float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.pump, st.flow
}

// HasFlow reports whether a current frame arrived yet.
func (st *Store) HasFlow() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.haveFlow
}

// Run drains a queue into the store until ctx is done.
func (st *Store) Run(ctx context.Context, q *Queue) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-q.C():
			st.Apply(r)
		}
	}
}
