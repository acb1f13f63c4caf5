package transport

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
)

func init() {
	Register("virtual", func(channel string) (canopen.Bus, error) {
		return Hub(channel).Open(), nil
	})
}

var (
	hubsMu sync.Mutex
	hubs   = map[string]*VirtualBus{}
)

// Hub returns the shared in-process hub behind a named virtual channel.
// Every Open on the same channel name attaches to the same hub.
func Hub(channel string) *VirtualBus {
	hubsMu.Lock()
	defer hubsMu.Unlock()

	hub, ok := hubs[channel]
	if !ok {
		hub = NewVirtualBus()
		hubs[channel] = hub
	}

	return hub
}

// endpointBuffer bounds the frames an endpoint may lag behind.
const endpointBuffer = 256

// VirtualBus is an in-process hub standing in for a physical bus: every
// frame sent on one endpoint reaches the subscribers of every other
// endpoint, never the sender's own.
type VirtualBus struct {
	mu        sync.Mutex
	endpoints []*Endpoint
}

func NewVirtualBus() *VirtualBus {
	return &VirtualBus{}
}

// Open attaches a new endpoint to the hub.
func (vb *VirtualBus) Open() *Endpoint {
	ep := &Endpoint{
		hub:      vb,
		rx:       make(chan canopen.Frame, endpointBuffer),
		quit:     make(chan struct{}),
		handlers: map[int]canopen.Handler{},
	}

	vb.mu.Lock()
	vb.endpoints = append(vb.endpoints, ep)
	vb.mu.Unlock()

	go ep.deliver()
	return ep
}

func (vb *VirtualBus) broadcast(from *Endpoint, frm canopen.Frame) {
	vb.mu.Lock()
	endpoints := append([]*Endpoint{}, vb.endpoints...)
	vb.mu.Unlock()

	for _, ep := range endpoints {
		if ep == from {
			continue
		}

		select {
		case ep.rx <- frm:
		case <-ep.quit:
		default:
			log.Warnf("[BUS] virtual endpoint lagging, frame %#03x dropped", frm.CobID)
		}
	}
}

func (vb *VirtualBus) detach(ep *Endpoint) {
	vb.mu.Lock()
	defer vb.mu.Unlock()

	for i, other := range vb.endpoints {
		if other == ep {
			vb.endpoints = append(vb.endpoints[:i], vb.endpoints[i+1:]...)
			return
		}
	}
}

// Endpoint is one attachment to a virtual bus.
type Endpoint struct {
	hub  *VirtualBus
	rx   chan canopen.Frame
	quit chan struct{}
	once sync.Once

	mu       sync.Mutex
	seq      int
	handlers map[int]canopen.Handler
}

// Send validates a frame and hands it to every other endpoint.
func (ep *Endpoint) Send(frm canopen.Frame) error {
	if err := frm.Validate(); err != nil {
		return err
	}

	ep.hub.broadcast(ep, frm)
	return nil
}

// Subscribe registers a handler for every frame other endpoints send.
func (ep *Endpoint) Subscribe(handler canopen.Handler) func() {
	ep.mu.Lock()
	id := ep.seq
	ep.seq++
	ep.handlers[id] = handler
	ep.mu.Unlock()

	return func() {
		ep.mu.Lock()
		delete(ep.handlers, id)
		ep.mu.Unlock()
	}
}

// Disconnect detaches the endpoint from its hub.
func (ep *Endpoint) Disconnect() error {
	ep.once.Do(func() {
		ep.hub.detach(ep)
		close(ep.quit)
	})

	return nil
}

func (ep *Endpoint) deliver() {
	for {
		select {
		case <-ep.quit:
			return
		case frm := <-ep.rx:
			ep.mu.Lock()
			handlers := make([]canopen.Handler, 0, len(ep.handlers))
			for _, handler := range ep.handlers {
				handlers = append(handlers, handler)
			}
			ep.mu.Unlock()

			for _, handler := range handlers {
				handler.Handle(frm)
			}
		}
	}
}
