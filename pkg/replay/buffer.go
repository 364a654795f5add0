package replay

import (
	"context"
	"sync"

	"github.com/bft-labs/lifebind/pkg/log"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// Buffer is an eagerly subscribed, replaying wrapper around a Source.
type Buffer[T any] struct {
	kind     stream.Kind
	logger   log.Logger
	upstream *stream.Subscription

	mu       sync.Mutex
	values   []T
	done     bool
	err      error
	disposed bool
	subs     map[*replayer[T]]struct{}
}

// New subscribes to src immediately and starts recording.
func New[T any](src stream.Source[T], logger log.Logger) *Buffer[T] {
	b := &Buffer[T]{
		kind:     src.Kind(),
		logger:   log.OrNoop(logger).With(log.Stringer("kind", src.Kind())),
		upstream: stream.NewSubscription(),
		subs:     make(map[*replayer[T]]struct{}),
	}
	src.Observe(b.upstream.Context(), b.record, b.finish)
	return b
}

// Source returns a stream replaying the recorded sequence followed by live
// values. It has the same Kind as the wrapped source.
func (b *Buffer[T]) Source() stream.Source[T] {
	return stream.Create(b.kind, func(ctx context.Context, next func(T), complete func(error)) {
		r := &replayer[T]{buf: b, ctx: ctx, next: next, complete: complete}
		r.stop = context.AfterFunc(ctx, func() {
			b.mu.Lock()
			delete(b.subs, r)
			b.mu.Unlock()
		})

		b.mu.Lock()
		if b.disposed {
			b.mu.Unlock()
			r.stop()
			complete(stream.ErrDisposed)
			return
		}
		if ctx.Err() != nil {
			b.mu.Unlock()
			return
		}
		b.subs[r] = struct{}{}
		b.mu.Unlock()

		r.drain()
	})
}

// Len returns the number of recorded values.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Done reports whether the upstream has terminated.
func (b *Buffer[T]) Done() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Dispose cancels the upstream and drops every recorded value. Subscribers
// that have not finished stop receiving values. Safe to call more than once.
func (b *Buffer[T]) Dispose() {
	b.upstream.Dispose()

	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return
	}
	recorded := len(b.values)
	b.disposed = true
	b.values = nil
	b.subs = nil
	b.mu.Unlock()

	b.logger.Debug("replay buffer disposed", log.Int("recorded", recorded))
}

func (b *Buffer[T]) record(v T) {
	b.mu.Lock()
	if b.done || b.disposed {
		b.mu.Unlock()
		return
	}
	switch b.kind {
	case stream.KindCompletable:
		b.mu.Unlock()
		return
	case stream.KindSingle, stream.KindMaybe:
		b.done = true
	}
	terminal := b.done
	b.values = append(b.values, v)
	subs := b.snapshot()
	b.mu.Unlock()

	if terminal {
		b.upstream.Dispose()
	}
	for _, r := range subs {
		r.drain()
	}
}

func (b *Buffer[T]) finish(err error) {
	b.mu.Lock()
	if b.done || b.disposed {
		b.mu.Unlock()
		return
	}
	b.done = true
	b.err = err
	subs := b.snapshot()
	b.mu.Unlock()

	b.upstream.Dispose()
	for _, r := range subs {
		r.drain()
	}
}

// snapshot must be called with b.mu held.
func (b *Buffer[T]) snapshot() []*replayer[T] {
	subs := make([]*replayer[T], 0, len(b.subs))
	for r := range b.subs {
		subs = append(subs, r)
	}
	return subs
}

// replayer tracks one subscriber's position in the recorded sequence.
// Only one goroutine drains a replayer at a time; others leave new values
// for the active drainer to pick up.
type replayer[T any] struct {
	buf      *Buffer[T]
	ctx      context.Context
	next     func(T)
	complete func(error)
	stop     func() bool

	// guarded by buf.mu
	pos      int
	draining bool
	finished bool
}

func (r *replayer[T]) drain() {
	b := r.buf
	b.mu.Lock()
	if r.draining || r.finished {
		b.mu.Unlock()
		return
	}
	r.draining = true
	for {
		if r.ctx.Err() != nil {
			r.draining = false
			b.mu.Unlock()
			return
		}
		if r.pos < len(b.values) {
			v := b.values[r.pos]
			r.pos++
			b.mu.Unlock()
			r.next(v)
			b.mu.Lock()
			continue
		}
		if !b.done {
			r.draining = false
			b.mu.Unlock()
			return
		}
		r.finished = true
		r.draining = false
		err := b.err
		delete(b.subs, r)
		b.mu.Unlock()

		r.stop()
		r.complete(err)
		return
	}
}
