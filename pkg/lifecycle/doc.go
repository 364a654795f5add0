// Package lifecycle models the owner side of a binding: an ordered set of
// lifecycle states, the events that move between them, the Gate predicate
// deciding when an owner counts as active, and a reference Owner that
// records state and notifies registered observers.
//
// # States
//
// Non-terminal states are totally ordered:
//
//	Initialized < Created < Started < Resumed
//
// Destroyed is absorbing and only reachable from Created (or directly from
// Initialized when the owner was never created).
//
// # Transitions
//
// Valid single-step transitions:
//   - Initialized -> Created (EventCreate), Destroyed (EventDestroy)
//   - Created -> Started (EventStart), Destroyed (EventDestroy)
//   - Started -> Resumed (EventResume), Created (EventStop)
//   - Resumed -> Started (EventPause)
//
// Owner.HandleEvent and Owner.MoveTo walk intermediate states, so destroying
// a resumed owner dispatches Pause, Stop and Destroy in that order.
//
// # Observers
//
// Observers are registered under a key. Registering under a key already in
// use replaces the previous observer and returns it to the caller, which
// lets a fresh binding supersede a stale one for the same owner.
//
//	owner := lifecycle.NewOwner("main", logger)
//	prev, err := owner.AddObserver("binding", obs)
//	...
//	_ = owner.HandleEvent(lifecycle.EventStart)
package lifecycle
