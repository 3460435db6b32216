package sinew

import (
	"github.com/akmonengine/sinew/actor"
	"github.com/akmonengine/sinew/joint"
)

const (
	ON_SLEEP EventType = iota
	ON_WAKE
	ON_JOINT_BREAK
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// JointBreakEvent is emitted after a joint's accumulated impulse exceeded
// its break threshold; the joint has already been removed from the world
type JointBreakEvent struct {
	Joint   joint.Joint
	Impulse float64
}

func (e JointBreakEvent) Type() EventType { return ON_JOINT_BREAK }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// emitJointBreak buffers a break event (called from the world's break pass)
func (e *Events) emitJointBreak(j joint.Joint, impulse float64) {
	e.buffer = append(e.buffer, JointBreakEvent{Joint: j, Impulse: impulse})
}

// processSleepEvents compares the tracked sleep state of each body with its
// current state and buffers the transitions
func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.RigidBody]bool)
	}

	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
