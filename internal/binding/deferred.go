package binding

import (
	"sync/atomic"

	"github.com/bft-labs/lifebind/pkg/stream"
)

// Deferred is stream work held back until its owner becomes active.
// Both methods are terminal: after either one, the other is a no-op.
type Deferred interface {
	// Activate starts delivery gated by sub.
	Activate(sub *stream.Subscription)

	// Discard drops the held stream and consumer without subscribing.
	Discard()
}

type deferredWork[T any] struct {
	src      stream.Source[T]
	consumer stream.Consumer[T]
}

type deferred[T any] struct {
	work atomic.Pointer[deferredWork[T]]
}

// NewDeferred returns a Deferred that subscribes consumer to src on Activate.
func NewDeferred[T any](src stream.Source[T], consumer stream.Consumer[T]) Deferred {
	d := &deferred[T]{}
	d.work.Store(&deferredWork[T]{src: src, consumer: consumer})
	return d
}

func (d *deferred[T]) Activate(sub *stream.Subscription) {
	w := d.work.Swap(nil)
	if w == nil {
		return
	}
	w.src.SubscribeWith(sub, w.consumer)
}

func (d *deferred[T]) Discard() {
	d.work.Store(nil)
}
