package event

import (
	"sync/atomic"

	"github.com/lixenwraith/timeforge/parameter"
)

// EventQueue buffers events between emitters and the session's dispatch
// Any goroutine may push; only the dispatching goroutine consumes
// When the ring is full the oldest unread event is dropped
type EventQueue struct {
	slots   [parameter.EventQueueSize]queueSlot
	read    atomic.Uint64
	write   atomic.Uint64
	dropped atomic.Uint64
}

type queueSlot struct {
	ev    GameEvent
	ready atomic.Bool // Set after ev is written, cleared when consumed
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push claims the next slot and publishes ev into it
func (q *EventQueue) Push(ev GameEvent) {
	end := q.write.Add(1)
	slot := &q.slots[(end-1)&parameter.EventBufferMask]
	slot.ev = ev
	slot.ready.Store(true)

	for {
		read := q.read.Load()
		if end-read <= parameter.EventQueueSize {
			return
		}
		if q.read.CompareAndSwap(read, end-parameter.EventQueueSize) {
			q.dropped.Add(end - parameter.EventQueueSize - read)
			return
		}
	}
}

// EmitFrame pushes an event stamped with the frame it was raised on
func (q *EventQueue) EmitFrame(t EventType, payload any, frame int64) {
	q.Push(GameEvent{Type: t, Payload: payload, Frame: frame})
}

// Consume drains published events in FIFO order
// Stops early at a slot whose producer has not finished writing
func (q *EventQueue) Consume() []GameEvent {
	for {
		read, write := q.read.Load(), q.write.Load()
		if read == write {
			return nil
		}
		from := read
		if write-from > parameter.EventQueueSize {
			from = write - parameter.EventQueueSize
		}

		out := make([]GameEvent, 0, write-from)
		for i := from; i < write; i++ {
			slot := &q.slots[i&parameter.EventBufferMask]
			if !slot.ready.Load() {
				break
			}
			out = append(out, slot.ev)
		}

		// An overflow moved read underneath us; retry from the new position
		if !q.read.CompareAndSwap(read, from+uint64(len(out))) {
			continue
		}
		for i := from; i < from+uint64(len(out)); i++ {
			q.slots[i&parameter.EventBufferMask].ready.Store(false)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
}

// Pending returns the number of unconsumed events
func (q *EventQueue) Pending() int {
	return int(min(q.write.Load()-q.read.Load(), parameter.EventQueueSize))
}

// Dropped returns how many events were overwritten before dispatch
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
