package stream

import (
	"context"
	"time"
)

// Just returns an observable emitting values in order, then completing.
func Just[T any](values ...T) Source[T] {
	return FromSlice(values)
}

// FromSlice returns an observable emitting the slice's elements in order.
func FromSlice[T any](values []T) Source[T] {
	return Observable(func(ctx context.Context, next func(T), complete func(error)) {
		for _, v := range values {
			if ctx.Err() != nil {
				return
			}
			next(v)
		}
		complete(nil)
	})
}

// SingleJust returns a Single that succeeds with v.
func SingleJust[T any](v T) Source[T] {
	return Single(func(ctx context.Context, next func(T), complete func(error)) {
		next(v)
	})
}

// MaybeJust returns a Maybe that succeeds with v.
func MaybeJust[T any](v T) Source[T] {
	return Maybe(func(ctx context.Context, next func(T), complete func(error)) {
		next(v)
	})
}

// Empty returns a source of the given kind that completes without a value.
// For KindSingle this surfaces as ErrNoSuchElement.
func Empty[T any](kind Kind) Source[T] {
	return Create(kind, func(ctx context.Context, next func(T), complete func(error)) {
		complete(nil)
	})
}

// Fail returns a source of the given kind that terminates with err.
func Fail[T any](kind Kind, err error) Source[T] {
	return Create(kind, func(ctx context.Context, next func(T), complete func(error)) {
		complete(err)
	})
}

// Done returns a Completable that completes immediately.
func Done() Source[struct{}] {
	return Empty[struct{}](KindCompletable)
}

// FromFunc returns a Completable that runs fn in its own goroutine and
// completes with fn's error.
func FromFunc(fn func(ctx context.Context) error) Source[struct{}] {
	return Completable(func(ctx context.Context, next func(struct{}), complete func(error)) {
		go func() {
			complete(fn(ctx))
		}()
	})
}

// Interval returns an observable emitting 0, 1, 2, ... every period from its
// own goroutine. A count of zero or less emits until disposed.
func Interval(period time.Duration, count int64) Source[int64] {
	return Observable(func(ctx context.Context, next func(int64), complete func(error)) {
		go func() {
			ticker := time.NewTicker(period)
			defer ticker.Stop()

			for i := int64(0); count <= 0 || i < count; i++ {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					next(i)
				}
			}
			complete(nil)
		}()
	})
}

// FromChannel returns an observable emitting every value received from ch
// and completing when ch is closed.
func FromChannel[T any](ch <-chan T) Source[T] {
	return Observable(func(ctx context.Context, next func(T), complete func(error)) {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						complete(nil)
						return
					}
					next(v)
				}
			}
		}()
	})
}
