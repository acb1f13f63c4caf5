// Package sim emulates the remote IO modules well enough to exercise
// commissioning and telemetry without hardware. An emulated node
// acknowledges expedited SDO writes into an in-memory dictionary,
// answers expedited reads from it, follows NMT state transitions and
// emits its transmit PDOs while operational.
package sim

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/pdo"
	"github.com/skidworks/canopen/sdo"
)

// State is an NMT node state.
type State uint8

const (
	PreOperational State = iota
	Operational
	Stopped
)

func (s State) String() string {
	switch s {
	case PreOperational:
		return "pre-operational"
	case Operational:
		return "operational"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// WriteRecord is one accepted configuration write, in arrival order.
type WriteRecord struct {
	ObjectIndex canopen.ObjectIndex
	Value       uint32
	Size        int
}

// Node emulates one IO module on a bus.
type Node struct {
	ID  uint8
	Bus canopen.Bus

	// Messages is the number of transmit PDOs the node owns.
	Messages int
	// EventTimer is the emission period while operational.
	EventTimer time.Duration
	// Silent suppresses SDO responses, emulating a dead node.
	Silent bool

	mu      sync.Mutex
	state   State
	objects map[canopen.ObjectIndex]uint32
	writes  []WriteRecord
	aborts  map[canopen.ObjectIndex]uint32
	counter uint16
	cancel  func()
}

// NewNode returns a node attached to a bus in the pre-operational state.
func NewNode(id uint8, bus canopen.Bus) *Node {
	node := &Node{
		ID:         id,
		Bus:        bus,
		Messages:   pdo.MaxMessages,
		EventTimer: 100 * time.Millisecond,
		objects:    map[canopen.ObjectIndex]uint32{},
		aborts:     map[canopen.ObjectIndex]uint32{},
	}

	node.cancel = bus.Subscribe(canopen.HandlerFunc(node.handle))
	return node
}

// Detach removes the node from its bus.
func (node *Node) Detach() {
	if node.cancel != nil {
		node.cancel()
		node.cancel = nil
	}
}

// AbortOn makes the node answer writes and reads of one entry with an
// abort transfer carrying the given code.
func (node *Node) AbortOn(index canopen.ObjectIndex, code uint32) {
	node.mu.Lock()
	defer node.mu.Unlock()
	node.aborts[index] = code
}

// State returns the node's NMT state.
func (node *Node) State() State {
	node.mu.Lock()
	defer node.mu.Unlock()
	return node.state
}

// SetState forces the node's NMT state, as a pre-commissioned device
// would reach it on its own.
func (node *Node) SetState(state State) {
	node.mu.Lock()
	defer node.mu.Unlock()
	node.state = state
}

// Writes returns every accepted configuration write in arrival order.
func (node *Node) Writes() []WriteRecord {
	node.mu.Lock()
	defer node.mu.Unlock()
	return append([]WriteRecord{}, node.writes...)
}

// Object returns the dictionary value of an entry.
func (node *Node) Object(index canopen.ObjectIndex) (uint32, bool) {
	node.mu.Lock()
	defer node.mu.Unlock()
	value, ok := node.objects[index]
	return value, ok
}

// SetObject seeds a dictionary entry without going over the bus.
func (node *Node) SetObject(index canopen.ObjectIndex, value uint32) {
	node.mu.Lock()
	defer node.mu.Unlock()
	node.objects[index] = value
}

func (node *Node) handle(frm canopen.Frame) {
	if frm.CobID == canopen.MessageTypeNMT {
		node.handleNMT(frm)
		return
	}

	// Check if the frame is intended for us and is SDO
	if frm.NodeID() != node.ID || frm.MessageType() != canopen.MessageTypeRSDO || len(frm.Data) != 8 {
		return
	}

	if node.Silent {
		return
	}

	ccs, _, _, n := sdo.ProcessRequestByte(frm.Data[0])
	switch ccs {
	case sdo.InitiateDownloadRequest:
		node.handleDownload(frm, n)
	case sdo.InitiateUploadRequest:
		node.handleUpload(frm)
	}
}

func (node *Node) handleNMT(frm canopen.Frame) {
	if len(frm.Data) < 2 {
		return
	}

	target := frm.Data[1]
	if target != node.ID && target != canopen.BroadcastNode {
		return
	}

	node.mu.Lock()
	defer node.mu.Unlock()

	switch canopen.NMTCommand(frm.Data[0]) {
	case canopen.NMTStart:
		node.state = Operational
	case canopen.NMTStop:
		node.state = Stopped
	case canopen.NMTEnterPreOperational:
		node.state = PreOperational
	case canopen.NMTResetNode, canopen.NMTResetCommunication:
		node.state = PreOperational
		node.counter = 0
	}

	log.Debugf("[SIM] node %d now %s", node.ID, node.state)
}

func (node *Node) handleDownload(frm canopen.Frame, n byte) {
	index := frm.ObjectIndex()

	value := binary.LittleEndian.Uint32(frm.Data[4:8])
	size := 4 - int(n)

	node.mu.Lock()
	code, abort := node.aborts[index]
	if !abort {
		node.objects[index] = value
		node.writes = append(node.writes, WriteRecord{
			ObjectIndex: index,
			Value:       value,
			Size:        size,
		})
	}
	node.mu.Unlock()

	if abort {
		node.publishAbort(index, code)
		return
	}

	node.publish(append([]byte{sdo.ServerResponseByte(sdo.InitiateDownloadResponse)}, index.Bytes()...))
}

func (node *Node) handleUpload(frm canopen.Frame) {
	index := frm.ObjectIndex()

	node.mu.Lock()
	code, abort := node.aborts[index]
	value, ok := node.objects[index]
	node.mu.Unlock()

	if abort {
		node.publishAbort(index, code)
		return
	}

	if !ok {
		node.publishAbort(index, sdo.SDO_ERR_NO_OBJECT)
		return
	}

	// expedited, size indicated, 4 data bytes
	header := sdo.SetBit(sdo.SetBit(sdo.ServerResponseByte(sdo.InitiateUploadResponse), 1), 0)
	payload := append([]byte{header}, index.Bytes()...)
	payload = binary.LittleEndian.AppendUint32(payload, value)

	node.publish(payload)
}

func (node *Node) publishAbort(index canopen.ObjectIndex, code uint32) {
	payload := append([]byte{sdo.ServerResponseByte(sdo.AbortTransfer)}, index.Bytes()...)
	payload = binary.LittleEndian.AppendUint32(payload, code)

	node.publish(payload)
}

func (node *Node) publish(payload []byte) {
	responseID := canopen.MessageTypeTSDO + uint16(node.ID)

	// Pad the result to always have 8 bytes
	if err := node.Bus.Send(canopen.NewFrame(responseID, sdo.Pad(payload, 8))); err != nil {
		log.Errorf("[SIM] node %d response: %v", node.ID, err)
	}
}

// Run emits the node's transmit PDOs at the event timer period until
// ctx is done. Emission follows the commissioned communication records:
// a message whose COB-ID entry carries the disable gate stays quiet and
// an unconfigured node falls back to the default addresses.
func (node *Node) Run(ctx context.Context) {
	period := node.EventTimer
	if period <= 0 {
		period = 100 * time.Millisecond
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			node.emit()
		}
	}
}

func (node *Node) emit() {
	node.mu.Lock()
	if node.state != Operational {
		node.mu.Unlock()
		return
	}

	node.counter++
	counter := node.counter

	cobIDs := make([]uint16, 0, node.Messages)
	for i := 0; i < node.Messages; i++ {
		entry, ok := node.objects[canopen.NewObjectIndex(pdo.CommunicationIndex(i), pdo.SubCobID)]
		if !ok {
			// never commissioned, fall back to the default address
			cobIDs = append(cobIDs, uint16AsCobID(pdo.TransmitCobID(i, node.ID)))
			continue
		}
		if entry&pdo.CobIDDisable != 0 {
			continue
		}
		cobIDs = append(cobIDs, uint16AsCobID(entry))
	}
	node.mu.Unlock()

	for _, cobID := range cobIDs {
		data := make([]byte, 8)
		binary.LittleEndian.PutUint16(data[2:4], counter)

		if err := node.Bus.Send(canopen.NewFrame(cobID, data)); err != nil {
			log.Errorf("[SIM] node %d emit %#03x: %v", node.ID, cobID, err)
		}
	}
}

func uint16AsCobID(v uint32) uint16 {
	return uint16(v & canopen.MaskCobID)
}
