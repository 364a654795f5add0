package stream

import (
	"context"
	"errors"
	"fmt"
)

// Stream errors.
var (
	// ErrNoSuchElement is delivered to a Single consumer whose source
	// completed without a value.
	ErrNoSuchElement = errors.New("stream: no such element")

	// ErrDisposed is delivered to a consumer subscribing to a shared source
	// that has already been torn down.
	ErrDisposed = errors.New("stream: source disposed")
)

// ConsumerPanicError carries a panic raised by a consumer's Next callback.
// It is delivered through the consumer's Error callback.
type ConsumerPanicError struct {
	Value any
}

func (e *ConsumerPanicError) Error() string {
	return fmt.Sprintf("stream: consumer panic: %v", e.Value)
}

// Kind identifies the delivery contract of a Source.
type Kind int

const (
	KindObservable Kind = iota
	KindSingle
	KindMaybe
	KindCompletable
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindObservable:
		return "observable"
	case KindSingle:
		return "single"
	case KindMaybe:
		return "maybe"
	case KindCompletable:
		return "completable"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name into a Kind.
func ParseKind(name string) (Kind, error) {
	for k := KindObservable; k <= KindCompletable; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return KindObservable, fmt.Errorf("stream: unknown kind %q", name)
}

// Producer pushes values into next and finishes with complete. A nil error
// means normal completion. Producers must return promptly or run their work
// in a goroutine that watches ctx.
type Producer[T any] func(ctx context.Context, next func(T), complete func(error))

// Consumer receives a source's signals. Next doubles as the success callback
// for Single and Maybe sources. Nil callbacks are skipped.
type Consumer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Source is a lazily started stream with a fixed delivery contract.
type Source[T any] struct {
	kind    Kind
	produce Producer[T]
}

// Create returns a Source of the given kind backed by p.
func Create[T any](kind Kind, p Producer[T]) Source[T] {
	return Source[T]{kind: kind, produce: p}
}

// Observable returns an observable Source backed by p.
func Observable[T any](p Producer[T]) Source[T] { return Create(KindObservable, p) }

// Single returns a single-valued Source backed by p.
func Single[T any](p Producer[T]) Source[T] { return Create(KindSingle, p) }

// Maybe returns an optional-valued Source backed by p.
func Maybe[T any](p Producer[T]) Source[T] { return Create(KindMaybe, p) }

// Completable returns a value-less Source backed by p.
func Completable(p Producer[struct{}]) Source[struct{}] { return Create(KindCompletable, p) }

// Kind returns the delivery contract of the source.
func (s Source[T]) Kind() Kind {
	return s.kind
}

// Subscribe starts delivery to c and returns its Subscription.
func (s Source[T]) Subscribe(c Consumer[T]) *Subscription {
	return s.SubscribeWith(NewSubscription(), c)
}

// SubscribeWith starts delivery to c gated by sub. A sub that is already
// disposed never starts the producer.
func (s Source[T]) SubscribeWith(sub *Subscription, c Consumer[T]) *Subscription {
	if sub.Disposed() || s.produce == nil {
		return sub
	}
	d := &delivery[T]{kind: s.kind, sub: sub, consumer: c}
	s.produce(sub.Context(), d.next, d.complete)
	return sub
}

// Observe runs the raw producer without contract enforcement. Operators use
// it to compose sources.
func (s Source[T]) Observe(ctx context.Context, next func(T), complete func(error)) {
	if s.produce == nil {
		complete(nil)
		return
	}
	s.produce(ctx, next, complete)
}
