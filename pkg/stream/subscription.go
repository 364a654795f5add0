package stream

import (
	"context"
	"sync/atomic"
)

// Subscription is a cancellable handle on an in-flight delivery.
// Dispose is idempotent and safe to call concurrently with delivery.
type Subscription struct {
	ctx      context.Context
	cancel   context.CancelFunc
	disposed atomic.Bool
}

// NewSubscription returns a live, not yet started Subscription.
func NewSubscription() *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	return &Subscription{ctx: ctx, cancel: cancel}
}

// DisposedSubscription returns a Subscription that is already disposed.
func DisposedSubscription() *Subscription {
	s := NewSubscription()
	s.Dispose()
	return s
}

// Dispose stops delivery. No consumer callback begins after Dispose returns.
func (s *Subscription) Dispose() {
	s.dispose()
}

// dispose reports whether this call performed the disposal.
func (s *Subscription) dispose() bool {
	if !s.disposed.CompareAndSwap(false, true) {
		return false
	}
	s.cancel()
	return true
}

// Disposed reports whether the subscription has been disposed, either
// explicitly or after its source terminated.
func (s *Subscription) Disposed() bool {
	return s.disposed.Load()
}

// Context is done once the subscription is disposed.
func (s *Subscription) Context() context.Context {
	return s.ctx
}
