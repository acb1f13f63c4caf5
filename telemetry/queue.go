package telemetry

import (
	"sync"
)

// DefaultQueueSize bounds the readings waiting for the consumer.
const DefaultQueueSize = 20

// Queue hands readings from the receive path to the consumer. Push
// never blocks: a full queue evicts its oldest reading, so a slow
// consumer costs history but never stalls frame reception.
type Queue struct {
	mu      sync.Mutex
	ch      chan Reading
	dropped uint64
}

// NewQueue returns a queue bounded to size readings.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}

	return &Queue{ch: make(chan Reading, size)}
}

// Push enqueues a reading, evicting the oldest pending one when full.
func (q *Queue) Push(r Reading) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		select {
		case q.ch <- r:
			return
		default:
		}

		select {
		case <-q.ch:
			q.dropped++
		default:
		}
	}
}

// C is the consumer side of the queue.
func (q *Queue) C() <-chan Reading {
	return q.ch
}

// Dropped reports how many readings were evicted so far.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
