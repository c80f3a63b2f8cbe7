package ama

import (
	"container/list"
	"sync"
)

// Queue is a thread-safe FIFO of BufferedEvent items. Order of Enqueue is
// the order events appear in a flushed batch.
type Queue struct {
	mu   sync.Mutex
	list *list.List
}

// NewQueue creates and returns a new empty Queue.
func NewQueue() *Queue {
	return &Queue{list: list.New()}
}

// Enqueue adds an event to the end of the queue.
func (q *Queue) Enqueue(event BufferedEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list.PushBack(event)
}

// IsEmpty reports whether the queue has no elements.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of events currently in the queue.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.list.Len()
}

// Clear removes all events from the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list.Init()
}

// ToSlice returns all events in the queue as a slice, preserving order.
func (q *Queue) ToSlice() []BufferedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Drain returns all events and, when clear is set, empties the queue in the
// same critical section.
func (q *Queue) Drain(clear bool) []BufferedEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.snapshotLocked()
	if clear {
		q.list.Init()
	}
	return events
}

func (q *Queue) snapshotLocked() []BufferedEvent {
	events := make([]BufferedEvent, 0, q.list.Len())
	for e := q.list.Front(); e != nil; e = e.Next() {
		events = append(events, e.Value.(BufferedEvent))
	}
	return events
}
