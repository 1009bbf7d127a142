package library

import (
	"github.com/nbd-wtf/go-nostr"
)

// NewEventQueue returns a FIFO of operation events that grows in steps of size.
func NewEventQueue(size int) *EventQueue {
	if size < 1 {
		size = 1
	}
	return &EventQueue{
		nodes: make([]*nostr.Event, size),
		size:  size,
	}
}

// EventQueue holds operations waiting for the sale mind. It is not safe for concurrent use.
type EventQueue struct {
	nodes []*nostr.Event
	size  int
	head  int
	tail  int
	count int
}

func (q *EventQueue) Push(n *nostr.Event) {
	if q.head == q.tail && q.count > 0 {
		nodes := make([]*nostr.Event, len(q.nodes)+q.size)
		copy(nodes, q.nodes[q.head:])
		copy(nodes[len(q.nodes)-q.head:], q.nodes[:q.head])
		q.head = 0
		q.tail = len(q.nodes)
		q.nodes = nodes
	}
	q.nodes[q.tail] = n
	q.tail = (q.tail + 1) % len(q.nodes)
	q.count++
}

// Pop removes and returns the oldest event.
func (q *EventQueue) Pop() (*nostr.Event, bool) {
	if q.count == 0 {
		return nil, false
	}
	node := q.nodes[q.head]
	q.nodes[q.head] = nil
	q.head = (q.head + 1) % len(q.nodes)
	q.count--
	return node, true
}

func (q *EventQueue) Len() int {
	return q.count
}
