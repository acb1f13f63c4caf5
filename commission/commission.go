// Package commission drives the one-time configuration of the analog
// input nodes: restore factory defaults, rebuild every transmit PDO
// behind its enable gate and persist the result to non-volatile storage.
package commission

import (
	"fmt"
	"time"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/pdo"
)

// Restore and store services with their CiA 301 ASCII signatures,
// "load" and "save" little-endian.
const (
	RestoreIndex  uint16 = 0x1011
	StoreIndex    uint16 = 0x1010
	SubRestoreAll uint8  = 1
	SubStoreAll   uint8  = 1

	SignatureLoad uint32 = 0x64616F6C
	SignatureSave uint32 = 0x65766173
)

const (
	DefaultMessages   = pdo.MaxMessages
	DefaultEventTimer = 100 * time.Millisecond
)

// Plan describes how a fleet of nodes is to be commissioned.
type Plan struct {
	// Nodes lists the node ids, commissioned strictly in order.
	Nodes []uint8
	// Messages is the number of transmit PDOs set up per node.
	Messages int
	// TransmissionType selects when a message fires, event-driven by default.
	TransmissionType uint8
	// InhibitTime spaces emissions in multiples of 100 microseconds,
	// zero leaves emission unthrottled.
	InhibitTime uint16
	// EventTimer is the emission period written to every message.
	EventTimer time.Duration
}

func (p Plan) withDefaults() Plan {
	if p.Messages == 0 {
		p.Messages = DefaultMessages
	}
	if p.TransmissionType == 0 {
		p.TransmissionType = pdo.TransmissionTypeEvent
	}
	if p.EventTimer == 0 {
		p.EventTimer = DefaultEventTimer
	}
	return p
}

// Validate rejects plans no module can satisfy.
func (p Plan) Validate() error {
	if len(p.Nodes) == 0 {
		return fmt.Errorf("commission: no nodes to set up")
	}

	for _, node := range p.Nodes {
		if node == 0 || node > canopen.MaxNodeID {
			return fmt.Errorf("commission: node id %d outside 1-%d", node, canopen.MaxNodeID)
		}
	}

	if p.Messages < 1 || p.Messages > pdo.MaxMessages {
		return fmt.Errorf("commission: %d messages outside 1-%d", p.Messages, pdo.MaxMessages)
	}

	return nil
}
