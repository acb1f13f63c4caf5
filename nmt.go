package canopen

import (
	log "github.com/sirupsen/logrus"
)

// NMTCommand is a CiA 301 module control command specifier.
type NMTCommand uint8

const (
	NMTStart               NMTCommand = 0x01
	NMTStop                NMTCommand = 0x02
	NMTEnterPreOperational NMTCommand = 0x80
	NMTResetNode           NMTCommand = 0x81
	NMTResetCommunication  NMTCommand = 0x82
)

// BroadcastNode addresses every node on the bus in one NMT frame.
const BroadcastNode uint8 = 0x00

// NMTFrame builds the 2-byte module control frame for one node.
func NMTFrame(cmd NMTCommand, node uint8) Frame {
	return NewFrame(MessageTypeNMT, []uint8{uint8(cmd), node})
}

// NMT issues node state transitions. The service is unacknowledged: a
// failed send is logged and the remaining nodes are still attempted.
type NMT struct {
	Bus Bus
}

// Start switches nodes to the operational state.
func (n *NMT) Start(nodes ...uint8) {
	n.send(NMTStart, nodes)
}

// Stop switches nodes to the stopped state.
func (n *NMT) Stop(nodes ...uint8) {
	n.send(NMTStop, nodes)
}

// PreOperational switches nodes to the pre-operational state, the state
// configuration writes are accepted in.
func (n *NMT) PreOperational(nodes ...uint8) {
	n.send(NMTEnterPreOperational, nodes)
}

// ResetNode reboots nodes.
func (n *NMT) ResetNode(nodes ...uint8) {
	n.send(NMTResetNode, nodes)
}

// ResetCommunication restarts the communication stack of nodes.
func (n *NMT) ResetCommunication(nodes ...uint8) {
	n.send(NMTResetCommunication, nodes)
}

func (n *NMT) send(cmd NMTCommand, nodes []uint8) {
	for _, node := range nodes {
		if err := n.Bus.Send(NMTFrame(cmd, node)); err != nil {
			log.Errorf("[NMT] command %#02x to node %d: %v", uint8(cmd), node, err)
		}
	}
}
