// Package lifebind binds a stream to an owner lifecycle.
//
// A binding guarantees that the consumer only receives callbacks while the
// owner is active, and that the subscription and every reference to the
// owner are released no later than the owner reaching its terminal state.
//
// # Basic Usage
//
//	owner := lifecycle.NewOwner("screen", logger)
//	_ = owner.HandleEvent(lifecycle.EventCreate)
//
//	b, err := lifebind.Bind(owner, stream.Just(1, 2, 3), stream.Consumer[int]{
//	    Next: func(v int) { render(v) },
//	})
//	if err != nil {
//	    return err
//	}
//
//	_ = owner.HandleEvent(lifecycle.EventStart) // delivery starts here
//	owner.Destroy()                            // and is disposed here
//
// # Policies
//
// [PolicyDeferUntilActive] (the default) holds the subscription back until
// the owner first becomes active. With replay enabled, which is the default
// for this policy, the source is subscribed eagerly and everything produced
// before activation is replayed in order.
//
// [PolicyDisposeOnDestroy] subscribes immediately and only guarantees
// disposal when the owner reaches its terminal state.
//
// # Thresholds
//
// The owner counts as active at or above [lifecycle.DefaultActiveState].
// Use [WithActiveState] and [WithTerminalState] to move either threshold;
// binding to an owner already in the terminal state yields a disposed
// binding and no callbacks.
//
// # Keys
//
// Registrations are keyed. A second binding to the same owner under the
// same key supersedes and disposes the first. Use [WithKey] to keep several
// bindings on one owner.
//
// # Single and Maybe sources
//
// When the owner is destroyed before a Single produces its value the
// binding vanishes silently: no callback of any kind reaches the consumer.
// The standalone [TakeWhileAlive] filter differs: a Single filtered out by a
// dead owner surfaces as [stream.ErrNoSuchElement] on the error callback,
// so error handlers must not assume the owner is still usable.
package lifebind
