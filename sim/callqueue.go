// Implements the CallQueue, the priority-ordered holding area for calls
// awaiting assignment. Calls are enqueued on arrival and leave only by
// assignment or abandonment.

package sim

import (
	"container/heap"
	"sort"
)

// CallQueue orders pending calls by (priority desc, arrival asc, insertion
// sequence asc), a strict reproducible total order. Priority is fixed at
// call creation; only arrival order can shift position within a level.
type CallQueue struct {
	h callHeap
	// seq is the insertion counter used as the final tie-break.
	seq uint64
}

type queuedCall struct {
	call  *Call
	seq   uint64
	index int
}

type callHeap []*queuedCall

func (h callHeap) Len() int { return len(h) }

func (h callHeap) Less(i, j int) bool {
	ci, cj := h[i], h[j]
	if ci.call.Priority != cj.call.Priority {
		return ci.call.Priority > cj.call.Priority
	}
	if ci.call.ArrivalTicks != cj.call.ArrivalTicks {
		return ci.call.ArrivalTicks < cj.call.ArrivalTicks
	}
	return ci.seq < cj.seq
}

func (h callHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *callHeap) Push(x any) {
	qc := x.(*queuedCall)
	qc.index = len(*h)
	*h = append(*h, qc)
}

func (h *callHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[0 : n-1]
	return item
}

// NewCallQueue creates an empty queue.
func NewCallQueue() *CallQueue {
	return &CallQueue{h: make(callHeap, 0)}
}

// Enqueue adds a call to the queue.
func (q *CallQueue) Enqueue(c *Call) {
	heap.Push(&q.h, &queuedCall{call: c, seq: q.seq})
	q.seq++
}

// PeekNext returns the highest-priority call without removing it, or nil if
// the queue is empty.
func (q *CallQueue) PeekNext() *Call {
	if len(q.h) == 0 {
		return nil
	}
	return q.h[0].call
}

// Len returns the number of queued calls.
func (q *CallQueue) Len() int {
	return len(q.h)
}

// DequeueAssigned removes the call with the given ID, wherever it sits in
// the queue. Returns false if the call is not queued.
func (q *CallQueue) DequeueAssigned(id CallID) bool {
	for _, qc := range q.h {
		if qc.call.ID == id {
			heap.Remove(&q.h, qc.index)
			return true
		}
	}
	return false
}

// Pending returns the queued calls in queue order (priority desc, arrival
// asc, insertion asc) without disturbing the heap. The dispatch sweep walks
// this snapshot.
func (q *CallQueue) Pending() []*Call {
	tmp := make([]*queuedCall, len(q.h))
	copy(tmp, q.h)
	sort.Slice(tmp, func(i, j int) bool {
		ci, cj := tmp[i], tmp[j]
		if ci.call.Priority != cj.call.Priority {
			return ci.call.Priority > cj.call.Priority
		}
		if ci.call.ArrivalTicks != cj.call.ArrivalTicks {
			return ci.call.ArrivalTicks < cj.call.ArrivalTicks
		}
		return ci.seq < cj.seq
	})
	out := make([]*Call, 0, len(tmp))
	for _, qc := range tmp {
		out = append(out, qc.call)
	}
	return out
}

// PendingAtOrAbove counts queued calls with priority >= level. The
// reservation policy consumes this through DispatchContext.
func (q *CallQueue) PendingAtOrAbove(level PriorityLevel) int {
	count := 0
	for _, qc := range q.h {
		if qc.call.Priority >= level {
			count++
		}
	}
	return count
}
