package frameloop

import (
	"log"
	"sync"
)

// EventType names one of the lifecycle events spec §4.10 requires.
type EventType string

const (
	EventTaskAdded     EventType = "TASK_ADDED"
	EventTaskStarted   EventType = "TASK_STARTED"
	EventTaskProgress  EventType = "TASK_PROGRESS"
	EventTaskCompleted EventType = "TASK_COMPLETED"
	EventTaskFailed    EventType = "TASK_FAILED"
	EventTaskCancelled EventType = "TASK_CANCELLED"
	EventTaskRetry     EventType = "TASK_RETRY"
)

// Event is the payload delivered to listeners. Only the fields
// relevant to Type are populated; the rest are zero.
type Event struct {
	Type     EventType
	TaskID   string
	Progress float64
	Result   any
	Err      error
	Attempt  int
	Delay    string
}

// Listener receives events in registration order.
type Listener func(Event)

// entry pairs a registered listener with the id On assigned it, so Off
// can remove exactly that listener instead of every listener for the
// event type. Function values aren't comparable in Go, so identity has
// to be tracked out of band like this rather than by the func itself.
type entry struct {
	id uint64
	fn Listener
}

// emitter is a synchronous, in-order fan-out of lifecycle events. Unlike
// the teacher's channel-based events.EventBus (which is async and drops
// events on a full buffer), spec §5 requires strictly ordered,
// synchronous delivery within the transition that produced the event,
// so listeners here are plain registered functions invoked inline.
// Listener panics are isolated exactly the way the teacher's worker
// pool isolates task panics (internal/EBal0vGG worker_pool.go pattern),
// so one broken observer cannot corrupt the scheduler.
type emitter struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[EventType][]entry
}

func newEmitter() *emitter {
	return &emitter{listeners: make(map[EventType][]entry)}
}

// On registers a listener for an event type, appended after any
// existing listeners for that type, and returns an id that Off can use
// to remove this listener specifically.
func (e *emitter) On(t EventType, l Listener) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[t] = append(e.listeners[t], entry{id: id, fn: l})
	return id
}

// Off removes the listener registered under id for event type t, if
// still present. A no-op if id was never registered or already removed.
func (e *emitter) Off(t EventType, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.listeners[t]
	for i, en := range entries {
		if en.id == id {
			e.listeners[t] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// Emit calls every listener registered for evt.Type, in registration
// order, isolating panics so a broken listener cannot affect the
// scheduler or later listeners.
func (e *emitter) Emit(evt Event) {
	e.mu.Lock()
	entries := append([]entry(nil), e.listeners[evt.Type]...)
	e.mu.Unlock()

	for _, en := range entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("frameloop: event listener for %s panicked: %v", evt.Type, r)
				}
			}()
			en.fn(evt)
		}()
	}
}
