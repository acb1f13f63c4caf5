package telemetry

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
)

// Route binds one bus address to the node and decoder that own it.
type Route struct {
	CobID uint16
	Node  uint8
	Kind  Kind
}

// RoutingTable is the address map of one deployment. It is built once
// and only read afterwards.
type RoutingTable struct {
	routes map[uint16]Route
}

// NewRoutingTable builds a table from its routes.
func NewRoutingTable(routes []Route) RoutingTable {
	m := make(map[uint16]Route, len(routes))
	for _, r := range routes {
		m[r.CobID] = r
	}

	return RoutingTable{routes: m}
}

// Lookup returns the route of a bus address.
func (t RoutingTable) Lookup(cobID uint16) (Route, bool) {
	r, ok := t.routes[cobID]
	return r, ok
}

// Len returns the number of routed addresses.
func (t RoutingTable) Len() int {
	return len(t.routes)
}

// Router classifies inbound frames by bus address, decodes the matches
// and feeds the readings into a queue. Handle runs on the receive path:
// it never blocks, frames off the table are ignored without a word and
// malformed frames on a routed address are logged and dropped.
type Router struct {
	Table         RoutingTable
	Resolution    uint
	FlowFullScale float64
	Queue         *Queue
}

// NewRouter returns a router with the module defaults.
func NewRouter(table RoutingTable, queue *Queue) *Router {
	return &Router{
		Table:         table,
		Resolution:    DefaultResolution,
		FlowFullScale: DefaultFlowFullScale,
		Queue:         queue,
	}
}

// Handle implements canopen.Handler.
func (rt *Router) Handle(frm canopen.Frame) {
	route, ok := rt.Table.Lookup(frm.CobID)
	if !ok {
		// not ours, the bus carries plenty of other traffic
		return
	}

	words, err := frm.Words()
	if err != nil {
		log.Warnf("[ROUTER] dropped frame %#03x from node %d: %v", frm.CobID, route.Node, err)
		return
	}

	reading := Reading{
		Node: route.Node,
		Kind: route.Kind,
		At:   time.Now(),
	}

	switch route.Kind {
	case Voltage:
		for i, word := range words {
			reading.Values[i] = Volts(int(int16(word)), rt.Resolution)
		}
	case Temperature:
		for i, word := range words {
			reading.Values[i] = Celsius(int16(word))
		}
	case Current:
		for i, word := range words {
			reading.Values[i] = Milliamps(word)
		}
		reading.PumpPercent = MilliampsToPercent(reading.Values[0])
		reading.Flow = MilliampsToFlow(reading.Values[1], rt.FlowFullScale)
	default:
		return
	}

	rt.Queue.Push(reading)
}
