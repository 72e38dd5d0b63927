package sim

import "container/heap"

// EventHeap implements a priority queue with deterministic ordering:
// timestamp first, then schedule sequence.
type EventHeap struct {
	entries []heapEntry
	nextSeq uint64
}

type heapEntry struct {
	event Event
	seq   uint64
}

// NewEventHeap creates a new event heap.
func NewEventHeap() *EventHeap {
	h := &EventHeap{entries: make([]heapEntry, 0)}
	heap.Init(h)
	return h
}

// Len implements heap.Interface.
func (h *EventHeap) Len() int { return len(h.entries) }

// Less implements heap.Interface. Ties on timestamp are broken by schedule
// sequence, so same-tick events run in submission order on every run.
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.entries[i], h.entries[j]
	if ei.event.Timestamp() != ej.event.Timestamp() {
		return ei.event.Timestamp() < ej.event.Timestamp()
	}
	return ei.seq < ej.seq
}

// Swap implements heap.Interface.
func (h *EventHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

// Push implements heap.Interface.
func (h *EventHeap) Push(x any) {
	h.entries = append(h.entries, x.(heapEntry))
}

// Pop implements heap.Interface.
func (h *EventHeap) Pop() any {
	old := h.entries
	n := len(old)
	item := old[n-1]
	h.entries = old[:n-1]
	return item
}

// Schedule adds an event to the heap.
func (h *EventHeap) Schedule(e Event) {
	h.nextSeq++
	heap.Push(h, heapEntry{event: e, seq: h.nextSeq})
}

// PopNext removes and returns the next event, or nil if the heap is empty.
func (h *EventHeap) PopNext() Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(heapEntry).event
}

// Peek returns the next event without removing it.
func (h *EventHeap) Peek() Event {
	if h.Len() == 0 {
		return nil
	}
	return h.entries[0].event
}
