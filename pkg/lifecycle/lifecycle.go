package lifecycle

import (
	"fmt"
	"strings"
)

// State represents the lifecycle state of an owner.
type State int

const (
	StateInitialized State = iota
	StateCreated
	StateStarted
	StateResumed
	StateDestroyed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateCreated:
		return "Created"
	case StateStarted:
		return "Started"
	case StateResumed:
		return "Resumed"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s >= StateInitialized && s <= StateDestroyed
}

// IsAtLeast reports whether s is at or above other in the non-terminal order.
// Destroyed is never at least anything, and nothing is at least Destroyed
// except Destroyed itself.
func (s State) IsAtLeast(other State) bool {
	if s == StateDestroyed || other == StateDestroyed {
		return s == other
	}
	return s >= other
}

// ParseState converts a case-insensitive state name into a State.
func ParseState(name string) (State, error) {
	for s := StateInitialized; s <= StateDestroyed; s++ {
		if strings.EqualFold(s.String(), name) {
			return s, nil
		}
	}
	return StateInitialized, fmt.Errorf("%w: unknown state %q", ErrInvalidState, name)
}

// Event is a lifecycle event that moves an owner between adjacent states.
type Event int

const (
	EventCreate Event = iota
	EventStart
	EventResume
	EventPause
	EventStop
	EventDestroy
)

// String returns a human-readable representation of the event.
func (e Event) String() string {
	switch e {
	case EventCreate:
		return "Create"
	case EventStart:
		return "Start"
	case EventResume:
		return "Resume"
	case EventPause:
		return "Pause"
	case EventStop:
		return "Stop"
	case EventDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

// Target returns the state an owner is in after the event.
func (e Event) Target() State {
	switch e {
	case EventCreate, EventStop:
		return StateCreated
	case EventStart, EventPause:
		return StateStarted
	case EventResume:
		return StateResumed
	case EventDestroy:
		return StateDestroyed
	default:
		return StateInitialized
	}
}

// ParseEvent converts a case-insensitive event name into an Event.
// Names with an "on" prefix ("onStart", "ON_START") are accepted as well.
func ParseEvent(name string) (Event, error) {
	trimmed := name
	if len(trimmed) > 3 && strings.EqualFold(trimmed[:3], "on_") {
		trimmed = trimmed[3:]
	} else if len(trimmed) > 2 && strings.EqualFold(trimmed[:2], "on") {
		trimmed = trimmed[2:]
	}
	for e := EventCreate; e <= EventDestroy; e++ {
		if strings.EqualFold(e.String(), trimmed) {
			return e, nil
		}
	}
	return EventCreate, fmt.Errorf("%w: unknown event %q", ErrInvalidState, name)
}

// step returns the event that moves from one state to an adjacent one.
func step(from, to State) (Event, bool) {
	switch {
	case from == StateInitialized && to == StateCreated:
		return EventCreate, true
	case from == StateCreated && to == StateStarted:
		return EventStart, true
	case from == StateStarted && to == StateResumed:
		return EventResume, true
	case from == StateResumed && to == StateStarted:
		return EventPause, true
	case from == StateStarted && to == StateCreated:
		return EventStop, true
	case (from == StateCreated || from == StateInitialized) && to == StateDestroyed:
		return EventDestroy, true
	}
	return 0, false
}

// nextToward returns the adjacent state on the path from current to target.
func nextToward(current, target State) State {
	if target == StateDestroyed {
		if current == StateCreated || current == StateInitialized {
			return StateDestroyed
		}
		return current - 1
	}
	if target > current {
		return current + 1
	}
	return current - 1
}
