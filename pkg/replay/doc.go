// Package replay records a stream from the moment it is wrapped so that a
// consumer subscribing later still sees every value.
//
// A Buffer subscribes to its upstream exactly once, eagerly, in New. Each
// subscriber to Buffer.Source receives the recorded values from the start in
// emission order, then live values, then the terminal signal. Values are kept
// until Dispose is called, including values every subscriber has already
// received, so an unbounded observable grows the buffer for as long as it
// stays undisposed. Bound the upstream (Interval count, TakeLast) when the
// owner is long-lived.
//
//	buf := replay.New(src, logger)
//	defer buf.Dispose()
//	buf.Source().Subscribe(consumer)
package replay
