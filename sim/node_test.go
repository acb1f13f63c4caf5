package sim

import (
	"context"
	"testing"
	"time"

	"github.com/skidworks/canopen"
	"github.com/skidworks/canopen/sdo"
	"github.com/skidworks/canopen/transport"
)

func TestNodeAcknowledgesWrites(t *testing.T) {
	hub := transport.NewVirtualBus()
	node := NewNode(0x23, hub.Open())
	defer node.Detach()

	bus := hub.Open()
	defer bus.Disconnect()

	conf := &sdo.Configurator{Bus: bus, Timeout: time.Second, Strict: true}
	if err := conf.Write(0x23, 0x1800, 0x02, 0xFF, 1); err != nil {
		t.Log("Write failed", err)
		t.FailNow()
	}

	value, ok := node.Object(canopen.NewObjectIndex(0x1800, 0x02))
	if !ok || value != 0xFF {
		t.Log("Dictionary not updated", value, ok)
		t.FailNow()
	}

	writes := node.Writes()
	if len(writes) != 1 || writes[0].Size != 1 {
		t.Log("Wrong write record", writes)
		t.FailNow()
	}
}

func TestNodeAnswersReads(t *testing.T) {
	hub := transport.NewVirtualBus()
	node := NewNode(0x23, hub.Open())
	defer node.Detach()

	node.SetObject(canopen.NewObjectIndex(0x6401, 0x01), 0x1234)

	bus := hub.Open()
	defer bus.Disconnect()

	value, err := sdo.Read{
		Node:        0x23,
		ObjectIndex: canopen.NewObjectIndex(0x6401, 0x01),
		Timeout:     time.Second,
	}.Uint32(bus)
	if err != nil {
		t.Log("Read failed", err)
		t.FailNow()
	}

	if value != 0x1234 {
		t.Log("Wrong value", value)
		t.FailNow()
	}
}

func TestNodeAbortsMissingObjects(t *testing.T) {
	hub := transport.NewVirtualBus()
	node := NewNode(0x23, hub.Open())
	defer node.Detach()

	bus := hub.Open()
	defer bus.Disconnect()

	_, err := sdo.Read{
		Node:        0x23,
		ObjectIndex: canopen.NewObjectIndex(0x7777, 0x01),
		Timeout:     time.Second,
	}.Do(bus)
	if err == nil {
		t.Log("Read of a missing object succeeded")
		t.FailNow()
	}

	if _, ok := err.(sdo.TransferAbort); !ok {
		t.Log("Unexpected error", err)
		t.FailNow()
	}
}

func TestNodeFollowsNMT(t *testing.T) {
	hub := transport.NewVirtualBus()
	node := NewNode(5, hub.Open())
	defer node.Detach()

	bus := hub.Open()
	defer bus.Disconnect()

	nmt := &canopen.NMT{Bus: bus}

	nmt.Start(5)
	waitState(t, node, Operational)

	nmt.Stop(5)
	waitState(t, node, Stopped)

	// broadcast reaches the node too
	nmt.PreOperational(canopen.BroadcastNode)
	waitState(t, node, PreOperational)
}

func TestNodeEmitsWhileOperational(t *testing.T) {
	hub := transport.NewVirtualBus()
	node := NewNode(1, hub.Open())
	defer node.Detach()
	node.EventTimer = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go node.Run(ctx)

	bus := hub.Open()
	defer bus.Disconnect()

	frames := make(chan canopen.Frame, 64)
	bus.Subscribe(canopen.HandlerFunc(func(frm canopen.Frame) {
		if frm.CobID == 0x181 {
			frames <- frm
		}
	}))

	// quiet before start
	select {
	case frm := <-frames:
		t.Log("Emitted while pre-operational", frm)
		t.FailNow()
	case <-time.After(50 * time.Millisecond):
	}

	(&canopen.NMT{Bus: bus}).Start(1)

	select {
	case frm := <-frames:
		if len(frm.Data) != 8 {
			t.Log("Short telemetry frame", frm)
			t.FailNow()
		}
	case <-time.After(2 * time.Second):
		t.Log("No telemetry arrived")
		t.FailNow()
	}
}

func waitState(t *testing.T, node *Node, state State) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if node.State() == state {
			return
		}
		time.Sleep(time.Millisecond)
	}

	t.Log("Node never reached state", state)
	t.FailNow()
}
