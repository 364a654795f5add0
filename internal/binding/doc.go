// Package binding holds the per-owner state machine that ties a stream
// subscription to an owner lifecycle.
//
// An Observer moves through three phases:
//
//	Pending -> Active -> Disposed
//	Pending -> Disposed
//
// Every transition happens inside one guarded evaluation shared by
// AttachDeferred and OnStateChange. Reaching the owner's terminal state
// always wins over activation, and the subscription is disposed before the
// observer unregisters or any callback runs.
package binding
