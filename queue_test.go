package ama

import (
	"fmt"
	"sync"
	"testing"
)

func TestQueue_IsEmpty(t *testing.T) {
	q := NewQueue()
	if !q.IsEmpty() {
		t.Fatal("expected queue to be empty")
	}
	q.Enqueue(BufferedEvent{EventType: "test"})
	if q.IsEmpty() {
		t.Fatal("expected queue not to be empty")
	}
}

func TestQueue_Len(t *testing.T) {
	q := NewQueue()
	if q.Len() != 0 {
		t.Fatal("expected length 0")
	}
	q.Enqueue(BufferedEvent{EventType: "test1"})
	q.Enqueue(BufferedEvent{EventType: "test2"})
	if q.Len() != 2 {
		t.Fatal("expected length 2")
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(BufferedEvent{EventType: "test"})
	q.Clear()
	if !q.IsEmpty() {
		t.Fatal("expected queue to be empty after clear")
	}
}

func TestQueue_ToSlice(t *testing.T) {
	q := NewQueue()
	q.Enqueue(BufferedEvent{EventType: "test1"})
	q.Enqueue(BufferedEvent{EventType: "test2"})

	events := q.ToSlice()
	if len(events) != 2 || events[0].EventType != "test1" || events[1].EventType != "test2" {
		t.Fatalf("expected events in insertion order, got %v", events)
	}
	if q.Len() != 2 {
		t.Fatal("expected ToSlice to leave the queue intact")
	}
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue()
	q.Enqueue(BufferedEvent{EventType: "test1"})

	if events := q.Drain(false); len(events) != 1 || q.Len() != 1 {
		t.Fatal("expected Drain(false) to keep the events")
	}
	if events := q.Drain(true); len(events) != 1 || !q.IsEmpty() {
		t.Fatal("expected Drain(true) to empty the queue")
	}
	if events := q.Drain(true); len(events) != 0 {
		t.Fatal("expected empty slice from empty queue")
	}
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Enqueue(BufferedEvent{EventType: fmt.Sprintf("event-%d", i)})
		}()
	}
	wg.Wait()

	if q.Len() != 50 {
		t.Fatalf("expected 50 events, got %d", q.Len())
	}
}
