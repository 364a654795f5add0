package lifebind

import (
	"context"

	"github.com/bft-labs/lifebind/internal/binding"
	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/replay"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// Binder applies one owner, consumer and option set to sources.
type Binder[T any] struct {
	owner    lifecycle.Lifecycle
	consumer stream.Consumer[T]
	opts     options
	gate     lifecycle.Gate
}

// NewBinder validates opts and returns a Binder. It fails only when the
// thresholds given by WithActiveState and WithTerminalState are invalid.
func NewBinder[T any](owner lifecycle.Lifecycle, consumer stream.Consumer[T], opts ...Option) (*Binder[T], error) {
	o, gate, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	return &Binder[T]{owner: owner, consumer: consumer, opts: o, gate: gate}, nil
}

// Apply binds src. A nil or terminal owner yields a disposed Binding that
// never delivers.
func (b *Binder[T]) Apply(src stream.Source[T]) *Binding[T] {
	obs := binding.Bind(b.owner, binding.Config{
		Key:     b.opts.key,
		Gate:    b.gate,
		Policy:  b.opts.policy.String(),
		Logger:  b.opts.logger,
		Emitter: b.opts.emitter,
	})

	out := src
	switch b.opts.policy {
	case PolicyDisposeOnDestroy:
		sub := stream.NewSubscription()
		obs.AttachSubscription(sub)
		src.SubscribeWith(sub, b.consumer)
	default:
		if b.opts.replayEnabled() && obs.Phase() != binding.PhaseDisposed {
			buf := replay.New(src, b.opts.logger)
			obs.OnTeardown(buf.Dispose)
			out = buf.Source()
		}
		obs.AttachDeferred(binding.NewDeferred(out, b.consumer))
	}

	return &Binding[T]{
		observer: obs,
		source: stream.TakeWhile(out, func(T) bool {
			return obs.Alive()
		}),
	}
}

// Bind binds src to owner and delivers to consumer under opts.
func Bind[T any](owner lifecycle.Lifecycle, src stream.Source[T], consumer stream.Consumer[T], opts ...Option) (*Binding[T], error) {
	b, err := NewBinder(owner, consumer, opts...)
	if err != nil {
		return nil, err
	}
	return b.Apply(src), nil
}

// DisposeIfDestroyed subscribes consumer to src immediately and disposes the
// subscription once owner reaches its terminal state.
func DisposeIfDestroyed[T any](owner lifecycle.Lifecycle, src stream.Source[T], consumer stream.Consumer[T], opts ...Option) (*Binding[T], error) {
	return Bind(owner, src, consumer, append(opts, WithPolicy(PolicyDisposeOnDestroy))...)
}

// TakeWhileAlive filters src so that it completes on the first value seen
// after owner reaches its terminal state. It does not delay delivery. For
// a Single source a filtered value surfaces as stream.ErrNoSuchElement.
// Only WithActiveState and WithTerminalState are honored. Each observation
// registers with owner and unregisters once it completes or is disposed.
func TakeWhileAlive[T any](owner lifecycle.Lifecycle, src stream.Source[T], opts ...Option) (stream.Source[T], error) {
	_, gate, err := resolve(opts)
	if err != nil {
		return src, err
	}
	return stream.Create(src.Kind(), func(ctx context.Context, next func(T), complete func(error)) {
		p := binding.NewPredicate(owner, gate)
		stop := context.AfterFunc(ctx, p.Release)
		filtered := stream.TakeWhile(src, func(T) bool {
			return p.Alive()
		})
		filtered.Observe(ctx, next, func(err error) {
			stop()
			p.Release()
			complete(err)
		})
	}), nil
}

// Binding is the handle returned by Bind.
type Binding[T any] struct {
	observer *binding.Observer
	source   stream.Source[T]
}

// ID returns the binding's unique identifier.
func (b *Binding[T]) ID() string {
	return b.observer.ID()
}

// Key returns the owner registration key.
func (b *Binding[T]) Key() string {
	return b.observer.Key()
}

// Phase returns the binding's current phase.
func (b *Binding[T]) Phase() Phase {
	return b.observer.Phase()
}

// Alive reports whether the binding is not disposed and its owner is not
// terminal.
func (b *Binding[T]) Alive() bool {
	return b.observer.Alive()
}

// Subscription returns the live subscription. It is nil until a deferred
// binding activates and already disposed once the binding is disposed or
// was rejected.
func (b *Binding[T]) Subscription() *stream.Subscription {
	return b.observer.Subscription()
}

// Source returns the bound stream for further composition. It replays like
// the bound consumer saw it when replay is enabled, and completes once the
// owner is terminal.
func (b *Binding[T]) Source() stream.Source[T] {
	return b.source
}
