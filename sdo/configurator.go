package sdo

import (
	"strconv"
	"time"

	"github.com/avast/retry-go"
	log "github.com/sirupsen/logrus"

	"github.com/skidworks/canopen"
)

// DefaultAttempts is the write attempt budget of the strict policy.
const DefaultAttempts = 3

const retryDelay = 10 * time.Millisecond

// Configurator issues expedited writes and applies the deployment's
// acknowledgement policy. The legacy policy matches the modules this
// profile grew up with: a missing acknowledgement is logged and the
// write is assumed to have landed. The strict policy retries the
// exchange and surfaces the failure.
type Configurator struct {
	Bus      canopen.Bus
	Timeout  time.Duration
	Strict   bool
	Attempts uint
}

// Write sends one configuration value and waits for the node's
// acknowledgement. Under the legacy policy only protocol violations are
// returned; transport and acknowledgement failures are logged.
func (c *Configurator) Write(node uint8, index uint16, subIndex uint8, value uint32, size int) error {
	write := Write{
		Node:        node,
		ObjectIndex: canopen.NewObjectIndex(index, subIndex),
		Value:       value,
		Size:        size,
	}

	frame, err := write.Frame()
	if err != nil {
		return err
	}

	// Do not allow multiple messages for the same device
	key := strconv.Itoa(int(write.RequestCobID()))
	canopen.Lock.Lock(key)
	defer canopen.Lock.Unlock(key)

	client := &canopen.Client{Bus: c.Bus, Timeout: c.Timeout}

	if c.Strict {
		attempts := c.Attempts
		if attempts == 0 {
			attempts = DefaultAttempts
		}

		return retry.Do(func() error {
			return c.exchange(client, write, frame)
		}, retry.Attempts(attempts), retry.Delay(retryDelay), retry.LastErrorOnly(true))
	}

	_, err = client.Do(canopen.NewRequest(frame, write.ResponseCobID()))
	switch err.(type) {
	case nil:
		log.Debugf("[SDO] node %d acked %04X:%02X", node, index, subIndex)
	case canopen.AckTimeout:
		log.Warnf("[SDO] no ack from node %d for %04X:%02X = %#x, assuming the write landed", node, index, subIndex, value)
	default:
		log.Errorf("[SDO] write %04X:%02X to node %d: %v", index, subIndex, node, err)
	}

	return nil
}

func (c *Configurator) exchange(client *canopen.Client, write Write, frame canopen.Frame) error {
	resp, err := client.Do(canopen.NewRequest(frame, write.ResponseCobID()))
	if err != nil {
		return err
	}

	data := resp.Frame.Data
	if len(data) < 8 {
		return canopen.ShortFrameError{Length: len(data)}
	}

	scs := ResponseSpecifier(data[0])
	if scs != InitiateDownloadResponse {
		if scs == AbortTransfer {
			// The node rejected the entry, more attempts will not change its mind
			return retry.Unrecoverable(TransferAbort{
				AbortCode: GetAbortCodeBytes(resp.Frame),
			})
		}

		return UnexpectedSCSResponse{
			Expected:  uint8(InitiateDownloadResponse),
			Actual:    uint8(scs),
			AbortCode: GetAbortCodeBytes(resp.Frame),
		}
	}

	// Check if this is the correct response for the requested message
	if resp.Frame.ObjectIndex() != write.ObjectIndex {
		return UnexpectedSCSResponse{
			Expected: uint8(InitiateDownloadResponse),
			Actual:   uint8(scs),
		}
	}

	return nil
}
