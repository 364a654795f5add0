package stream

import (
	"errors"
	"testing"
	"time"
)

func TestTakeLast(t *testing.T) {
	rec := &recorder[int64]{}
	TakeLast(Interval(time.Millisecond, 10), 1).Subscribe(rec.consumer())

	waitFor(t, func() bool {
		_, _, completes := rec.snapshot()
		return completes == 1
	})
	values, _, _ := rec.snapshot()
	if len(values) != 1 || values[0] != 9 {
		t.Errorf("values = %v, want [9]", values)
	}
}

func TestTakeLast_ForwardsError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder[int]{}
	TakeLast(Fail[int](KindObservable, boom), 3).Subscribe(rec.consumer())

	values, errs, _ := rec.snapshot()
	if len(values) != 0 || len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("values = %v, errs = %v", values, errs)
	}
}

func TestTakeWhile(t *testing.T) {
	rec := &recorder[int]{}
	TakeWhile(Just(1, 2, 3, 4), func(v int) bool { return v < 3 }).Subscribe(rec.consumer())

	values, errs, completes := rec.snapshot()
	if len(values) != 2 || values[1] != 2 {
		t.Errorf("values = %v, want [1 2]", values)
	}
	if len(errs) != 0 || completes != 1 {
		t.Errorf("errs = %v, completes = %d", errs, completes)
	}
}

func TestTakeWhile_RejectedSingleIsNoSuchElement(t *testing.T) {
	rec := &recorder[string]{}
	TakeWhile(SingleJust("x"), func(string) bool { return false }).Subscribe(rec.consumer())

	values, errs, _ := rec.snapshot()
	if len(values) != 0 {
		t.Errorf("values = %v, want none", values)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrNoSuchElement) {
		t.Errorf("errs = %v, want ErrNoSuchElement", errs)
	}
}

func TestTakeWhile_StopsInfiniteUpstream(t *testing.T) {
	rec := &recorder[int64]{}
	TakeWhile(Interval(time.Millisecond, 0), func(v int64) bool { return v < 5 }).Subscribe(rec.consumer())

	waitFor(t, func() bool {
		_, _, completes := rec.snapshot()
		return completes == 1
	})
	values, _, _ := rec.snapshot()
	if len(values) != 5 {
		t.Errorf("values = %v, want 5", values)
	}
}
