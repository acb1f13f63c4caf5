package actuator

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
)

const (
	DefaultPumpInterval  = 50 * time.Millisecond
	DefaultValveInterval = 100 * time.Millisecond
)

// Sender refreshes the output modules at a fixed cadence. The modules
// fall back to safe defaults when commands stop arriving, so the
// current state is re-sent on every tick rather than on change. An
// engaged emergency stop turns every payload into zeros until cleared.
type Sender struct {
	Bus canopen.Bus

	PumpCobID  uint16
	ValveCobID uint16

	PumpInterval  time.Duration
	ValveInterval time.Duration

	mu     sync.Mutex
	pump   Setpoint
	valves [2]bool
	estop  bool
}

// SetPump updates the pump command carried by the next ticks.
func (s *Sender) SetPump(enabled bool, speed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pump = Setpoint{Enabled: enabled, Speed: speed}
}

// SetValves updates the valve states carried by the next ticks.
func (s *Sender) SetValves(a, b bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valves = [2]bool{a, b}
}

// SetEStop engages or clears the emergency stop.
func (s *Sender) SetEStop(engaged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estop = engaged

	if engaged {
		log.Warn("[ACTUATOR] emergency stop engaged, outputs zeroed")
	} else {
		log.Info("[ACTUATOR] emergency stop cleared")
	}
}

// EStopped reports whether the emergency stop is engaged.
func (s *Sender) EStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.estop
}

// Run refreshes the outputs until ctx is done. A failed send is logged
// and the cadence carries on.
func (s *Sender) Run(ctx context.Context) {
	pumpInterval := s.PumpInterval
	if pumpInterval <= 0 {
		pumpInterval = DefaultPumpInterval
	}
	valveInterval := s.ValveInterval
	if valveInterval <= 0 {
		valveInterval = DefaultValveInterval
	}

	pump := time.NewTicker(pumpInterval)
	defer pump.Stop()
	valves := time.NewTicker(valveInterval)
	defer valves.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pump.C:
			s.sendPump()
		case <-valves.C:
			s.sendValves()
		}
	}
}

func (s *Sender) sendPump() {
	if s.PumpCobID == 0 {
		return
	}

	s.mu.Lock()
	setpoint := s.pump
	estop := s.estop
	s.mu.Unlock()

	frame := setpoint.Frame(s.PumpCobID)
	if estop {
		frame = canopen.NewFrame(s.PumpCobID, make([]uint8, 8))
	}

	if err := s.Bus.Send(frame); err != nil {
		log.Errorf("[ACTUATOR] pump frame: %v", err)
	}
}

func (s *Sender) sendValves() {
	if s.ValveCobID == 0 {
		return
	}

	s.mu.Lock()
	valves := s.valves
	estop := s.estop
	s.mu.Unlock()

	if estop {
		valves = [2]bool{}
	}

	frame := canopen.NewFrame(s.ValveCobID, PackDigital(valves[0], valves[1], false, false))
	if err := s.Bus.Send(frame); err != nil {
		log.Errorf("[ACTUATOR] valve frame: %v", err)
	}
}
