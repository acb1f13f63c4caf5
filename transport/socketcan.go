package transport

import (
	"github.com/FabianPetersen/can"
	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
)

func init() {
	Register("socketcan", NewSocketCAN)
}

// SocketCAN carries the canopen bus contract over a kernel SocketCAN
// interface.
type SocketCAN struct {
	channel string
	bus     *can.Bus
}

// NewSocketCAN opens a SocketCAN channel such as can0 and starts its
// receive loop.
func NewSocketCAN(channel string) (canopen.Bus, error) {
	bus, err := can.NewBusForInterfaceWithName(channel)
	if err != nil {
		return nil, err
	}

	s := &SocketCAN{channel: channel, bus: bus}
	go func() {
		if err := bus.ConnectAndPublish(); err != nil {
			log.Errorf("[BUS] %s receive loop ended: %v", channel, err)
		}
	}()

	return s, nil
}

// Send validates and publishes a frame.
func (s *SocketCAN) Send(frm canopen.Frame) error {
	if err := frm.Validate(); err != nil {
		return err
	}

	return s.bus.Publish(canFrame(frm))
}

// subscription adapts a canopen handler to the underlying bus, keeping
// an identity the bus can unsubscribe by.
type subscription struct {
	handler canopen.Handler
}

func (sub *subscription) Handle(frm can.Frame) {
	sub.handler.Handle(canopenFrame(frm))
}

// Subscribe registers a handler for every inbound frame.
func (s *SocketCAN) Subscribe(handler canopen.Handler) func() {
	sub := &subscription{handler: handler}
	s.bus.Subscribe(sub)

	return func() {
		s.bus.Unsubscribe(sub)
	}
}

// Disconnect closes the channel.
func (s *SocketCAN) Disconnect() error {
	return s.bus.Disconnect()
}

// canFrame returns a CAN frame representing the CANopen frame.
//
// CANopen frames are encoded as follows:
//
//	         -------------------------------------------------------
//	CAN     | ID           | Length    | Flags | Res0 | Res1 | Data |
//	         -------------------------------------------------------
//	CANopen | COB-ID + Rtr | len(Data) |       |      |      | Data |
//	         -------------------------------------------------------
func canFrame(frm canopen.Frame) can.Frame {
	var data [8]uint8
	n := len(frm.Data)
	copy(data[:n], frm.Data[:n])

	// Convert CANopen COB-ID to CAN id including RTR flag
	id := uint32(frm.CobID)
	if frm.Rtr {
		id = id | canopen.MaskRtr
	}

	return can.Frame{
		ID:     id,
		Length: uint8(len(frm.Data)),
		Data:   data,
	}
}

// canopenFrame returns a CANopen frame from a CAN frame.
func canopenFrame(frm can.Frame) canopen.Frame {
	n := frm.Length
	if n > 8 {
		n = 8
	}

	return canopen.Frame{
		CobID: uint16(frm.ID & canopen.MaskIDSff),
		Rtr:   (frm.ID & canopen.MaskRtr) == canopen.MaskRtr,
		Data:  frm.Data[:n],
	}
}
