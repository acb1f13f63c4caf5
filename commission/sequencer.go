package commission

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/pdo"
	"github.com/skidworks/canopen/sdo"
)

// write is one step of the per-node setup sequence.
type write struct {
	index uint16
	sub   uint8
	value uint32
	size  int
}

// Sequencer walks a fleet through its commissioning plan, one node at a
// time, one write at a time. Under the legacy acknowledgement policy
// the walk never stops; under the strict policy the first failed write
// aborts the run.
type Sequencer struct {
	Config *sdo.Configurator
	NMT    *canopen.NMT
	Plan   Plan
}

// Run commissions every node of the plan in order.
func (s *Sequencer) Run() error {
	plan := s.Plan.withDefaults()
	if err := plan.Validate(); err != nil {
		return err
	}

	for _, node := range plan.Nodes {
		if err := s.commission(node, plan); err != nil {
			return fmt.Errorf("commission node %d: %w", node, err)
		}
	}

	return nil
}

func (s *Sequencer) commission(node uint8, plan Plan) error {
	log.Infof("[COMMISSION] node %d: restoring defaults, %d messages", node, plan.Messages)

	// Configuration writes are accepted in the pre-operational state
	if s.NMT != nil {
		s.NMT.PreOperational(node)
	}

	if err := s.Config.Write(node, RestoreIndex, SubRestoreAll, SignatureLoad, 4); err != nil {
		return err
	}

	for i := 0; i < plan.Messages; i++ {
		if err := s.configureMessage(node, i, plan); err != nil {
			return err
		}
	}

	log.Infof("[COMMISSION] node %d: persisting", node)
	return s.Config.Write(node, StoreIndex, SubStoreAll, SignatureSave, 4)
}

// configureMessage rebuilds one transmit PDO. The message is gated off
// first and its bus address is enabled again only after every other
// parameter is in place, so a half-configured message never emits.
func (s *Sequencer) configureMessage(node uint8, i int, plan Plan) error {
	comm := pdo.CommunicationIndex(i)
	mapping := pdo.MappingIndex(i)
	cobID := pdo.TransmitCobID(i, node)

	writes := []write{
		{comm, pdo.SubCobID, pdo.CobIDDisable | cobID, 4},
		{comm, pdo.SubTransmissionType, uint32(plan.TransmissionType), 1},
		{comm, pdo.SubInhibitTime, uint32(plan.InhibitTime), 2},
		{mapping, pdo.SubCount, 0, 1},
	}

	mapped := 0
	for j := 0; j < pdo.WordsPerMessage; j++ {
		channel := i*pdo.WordsPerMessage + j + 1
		if channel > pdo.MaxChannel {
			break
		}

		writes = append(writes, write{mapping, uint8(j + 1), pdo.MappingEntry(channel), 4})
		mapped++
	}

	writes = append(writes,
		write{mapping, pdo.SubCount, uint32(mapped), 1},
		write{comm, pdo.SubEventTimer, uint32(plan.EventTimer / time.Millisecond), 2},
		write{comm, pdo.SubCobID, cobID, 4},
	)

	for _, w := range writes {
		if err := s.Config.Write(node, w.index, w.sub, w.value, w.size); err != nil {
			return err
		}
	}

	return nil
}
