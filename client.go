package canopen

import (
	"fmt"
	"time"

	"github.com/jpillora/maplock"
)

// Lock serializes request/response exchanges per COB-ID so concurrent
// callers cannot interleave transfers on the same channel.
var Lock = maplock.New()

// DefaultTimeout is the response wait applied when a Client or a caller
// does not choose one.
const DefaultTimeout = 500 * time.Millisecond

// AckTimeout indicates that no frame arrived on the expected response
// COB-ID within the configured wait.
type AckTimeout struct {
	CobID   uint16
	Timeout time.Duration
}

func (e AckTimeout) Error() string {
	return fmt.Sprintf("no response on COB-ID %#03x within %v", e.CobID, e.Timeout)
}

// A Request is a frame together with the COB-ID its response arrives on.
type Request struct {
	Frame      Frame
	ResponseID uint16
}

// NewRequest returns a request with a frame and an expected response COB-ID.
func NewRequest(frm Frame, responseID uint16) *Request {
	return &Request{
		Frame:      frm,
		ResponseID: responseID,
	}
}

// A Response is a frame returned for a request.
type Response struct {
	Frame   Frame
	Request *Request
}

// A Client handles message communication by sending a request
// and waiting for the response.
type Client struct {
	Bus     Bus
	Timeout time.Duration
}

// Do sends a request and waits for a response. The request frame is
// validated before anything reaches the transport. Any frame on the
// response COB-ID completes the exchange; if none arrives on time an
// AckTimeout is returned.
func (c *Client) Do(req *Request) (*Response, error) {
	if err := req.Frame.Validate(); err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rch := make(chan Frame, 1)
	cancel := c.Bus.Subscribe(HandlerFunc(func(frm Frame) {
		if frm.CobID == req.ResponseID {
			select {
			case rch <- frm:
			default:
			}
		}
	}))
	defer cancel()

	if err := c.Bus.Send(req.Frame); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frm := <-rch:
		return &Response{Frame: frm, Request: req}, nil
	case <-timer.C:
		return nil, AckTimeout{CobID: req.ResponseID, Timeout: timeout}
	}
}
