package stream

import "sync/atomic"

// delivery enforces a Kind's contract between a producer and a consumer.
type delivery[T any] struct {
	kind       Kind
	sub        *Subscription
	consumer   Consumer[T]
	terminated atomic.Bool
}

func (d *delivery[T]) next(v T) {
	if d.sub.Disposed() || d.terminated.Load() {
		return
	}
	switch d.kind {
	case KindCompletable:
		return
	case KindSingle, KindMaybe:
		if !d.terminated.CompareAndSwap(false, true) {
			return
		}
		d.callNext(v)
		d.sub.Dispose()
	default:
		d.callNext(v)
	}
}

func (d *delivery[T]) complete(err error) {
	if !d.terminated.CompareAndSwap(false, true) {
		return
	}
	if !d.sub.dispose() {
		return
	}
	switch {
	case err != nil:
		d.callError(err)
	case d.kind == KindSingle:
		d.callError(ErrNoSuchElement)
	default:
		if d.consumer.Complete != nil {
			d.consumer.Complete()
		}
	}
}

// callNext routes a panicking Next into the consumer's error callback,
// unless the subscription was disposed first.
func (d *delivery[T]) callNext(v T) {
	defer func() {
		if r := recover(); r != nil {
			d.terminated.Store(true)
			if d.sub.dispose() {
				d.callError(&ConsumerPanicError{Value: r})
			}
		}
	}()
	if d.consumer.Next != nil {
		d.consumer.Next(v)
	}
}

func (d *delivery[T]) callError(err error) {
	if d.consumer.Error != nil {
		d.consumer.Error(err)
	}
}
