// Package stream is the minimal push-stream collaborator bindings consume.
//
// A Source is a closed tagged variant over four delivery contracts:
//
//   - KindObservable: zero or more values, then complete or error
//   - KindSingle: exactly one value, or an error
//   - KindMaybe: one value, completion without a value, or an error
//   - KindCompletable: completion or an error, never a value
//
// Producers follow the Observe(ctx, next, complete) shape: they may call next
// and complete from any goroutine but never concurrently, and must stop once
// ctx is done. Subscribing a Consumer returns a Subscription whose Dispose is
// idempotent; after Dispose no new consumer callback begins.
//
// The package deliberately carries only a handful of sources and the two
// caller-side combinators needed around bindings (TakeLast, TakeWhile). It is
// not a general-purpose operator library.
package stream
