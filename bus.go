package canopen

// Bus is the transport contract every adapter satisfies. Send rejects
// invalid frames before touching the wire and Subscribe registers a
// handler for every inbound frame until the returned cancel func runs.
type Bus interface {
	Send(frm Frame) error
	Subscribe(handler Handler) (cancel func())
	Disconnect() error
}

// Handler receives inbound frames. Handle runs on the receive goroutine
// of the adapter and must not block.
type Handler interface {
	Handle(frm Frame)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(frm Frame)

func (f HandlerFunc) Handle(frm Frame) {
	f(frm)
}
