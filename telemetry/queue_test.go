package telemetry

import (
	"testing"
)

func drain(q *Queue) []Reading {
	var readings []Reading
	for {
		select {
		case r := <-q.C():
			readings = append(readings, r)
		default:
			return readings
		}
	}
}

func TestQueueEvictsOldest(t *testing.T) {
	q := NewQueue(3)

	for node := uint8(1); node <= 4; node++ {
		q.Push(Reading{Node: node})
	}

	readings := drain(q)
	if len(readings) != 3 {
		t.Log("Wrong queue depth", len(readings))
		t.FailNow()
	}

	// the oldest reading gave way, the rest kept their order
	for i, node := range []uint8{2, 3, 4} {
		if readings[i].Node != node {
			t.Log("Wrong order", i, readings[i].Node)
			t.FailNow()
		}
	}

	if q.Dropped() != 1 {
		t.Log("Wrong drop count", q.Dropped())
		t.FailNow()
	}
}

func TestQueueNeverBlocks(t *testing.T) {
	q := NewQueue(5)

	// no consumer anywhere
	for i := 0; i < 100; i++ {
		q.Push(Reading{Node: uint8(i)})
	}

	if q.Dropped() != 95 {
		t.Log("Wrong drop count", q.Dropped())
		t.FailNow()
	}

	readings := drain(q)
	if len(readings) != 5 || readings[0].Node != 95 {
		t.Log("Wrong survivors", readings)
		t.FailNow()
	}
}

func TestQueueDefaultSize(t *testing.T) {
	q := NewQueue(0)

	for i := 0; i < DefaultQueueSize; i++ {
		q.Push(Reading{})
	}

	if q.Dropped() != 0 {
		t.Log("Dropped below capacity", q.Dropped())
		t.FailNow()
	}

	q.Push(Reading{})
	if q.Dropped() != 1 {
		t.Log("No eviction at capacity", q.Dropped())
		t.FailNow()
	}
}
