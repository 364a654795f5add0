package app

import (
	"context"
	"time"

	"github.com/bft-labs/lifebind/pkg/stream"
)

// newSource builds the simulated upstream for the configured kind.
//
//   - observable emits 0..count-1 every interval, or forever when count is 0
//   - single emits 0 after one interval
//   - maybe emits 0 after one interval when count is positive, else completes empty
//   - completable completes after one interval
//
// keepLast > 0 keeps only the last keepLast values of an observable.
func newSource(kind stream.Kind, interval time.Duration, count, keepLast int) stream.Source[int64] {
	switch kind {
	case stream.KindSingle:
		return stream.Single(delayed(interval, true))
	case stream.KindMaybe:
		return stream.Maybe(delayed(interval, count > 0))
	case stream.KindCompletable:
		return stream.Create(stream.KindCompletable, delayed(interval, false))
	default:
		src := stream.Interval(interval, int64(count))
		if keepLast > 0 {
			src = stream.TakeLast(src, keepLast)
		}
		return src
	}
}

func delayed(after time.Duration, emit bool) stream.Producer[int64] {
	return func(ctx context.Context, next func(int64), complete func(error)) {
		go func() {
			timer := time.NewTimer(after)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if emit {
				next(0)
			}
			complete(nil)
		}()
	}
}
