package stream

import (
	"context"
	"sync"
)

// TakeLast emits only the final n values of src once it completes.
// Errors are forwarded without the buffered values.
func TakeLast[T any](src Source[T], n int) Source[T] {
	return Create(src.kind, func(ctx context.Context, next func(T), complete func(error)) {
		var (
			mu   sync.Mutex
			last []T
		)
		src.Observe(ctx,
			func(v T) {
				mu.Lock()
				defer mu.Unlock()
				if n <= 0 {
					return
				}
				if len(last) == n {
					last = append(last[:0], last[1:]...)
				}
				last = append(last, v)
			},
			func(err error) {
				if err != nil {
					complete(err)
					return
				}
				mu.Lock()
				out := last
				last = nil
				mu.Unlock()
				for _, v := range out {
					if ctx.Err() != nil {
						return
					}
					next(v)
				}
				complete(nil)
			})
	})
}

// TakeWhile emits values while pred holds. The first rejected value stops
// the upstream and completes the stream; for a Single source this surfaces
// as ErrNoSuchElement.
func TakeWhile[T any](src Source[T], pred func(T) bool) Source[T] {
	return Create(src.kind, func(ctx context.Context, next func(T), complete func(error)) {
		upstream, cancel := context.WithCancel(ctx)
		var once sync.Once
		finish := func(err error) {
			once.Do(func() {
				cancel()
				complete(err)
			})
		}
		src.Observe(upstream,
			func(v T) {
				if upstream.Err() != nil {
					return
				}
				if !pred(v) {
					finish(nil)
					return
				}
				next(v)
			},
			finish)
	})
}
