package state

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func sliceQuery(fetch Fetcher[[]int]) *Query[[]int] {
	return NewQuery("numbers", fetch, WithClone(func(v []int) []int {
		if v == nil {
			return nil
		}
		return append([]int(nil), v...)
	}))
}

func TestQuery_UpdateAndSnapshotClone(t *testing.T) {
	q := sliceQuery(nil)

	before := time.Now()
	q.Update([]int{1, 2}, nil)

	snap := q.Snapshot()
	if !snap.HasData || len(snap.Data) != 2 || snap.Data[0] != 1 {
		t.Fatalf("snapshot data = %#v, want [1 2] HasData=true", snap.Data)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Data[0] = 999
	if got := q.Snapshot().Data[0]; got != 1 {
		t.Fatalf("Snapshot should clone data; got %d want 1", got)
	}
}

func TestQuery_UpdateErrorKeepsPreviousData(t *testing.T) {
	q := sliceQuery(nil)
	q.Update([]int{7}, nil)

	origErr := errors.New("boom")
	q.Update(nil, origErr)

	snap := q.Snapshot()
	if !snap.HasData || len(snap.Data) != 1 || snap.Data[0] != 7 {
		t.Fatalf("data changed on error: got %#v", snap.Data)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("cloned error should wrap the original")
	}
}

func TestQuery_ConsecutiveFailures(t *testing.T) {
	q := sliceQuery(nil)

	if snap := q.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() || !snap.Loading() {
		t.Fatalf("fresh snapshot = %#v, want loading with 0 failures", snap)
	}

	q.Update(nil, errors.New("fail 1"))
	snap := q.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after one failure: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if snap.Loading() {
		t.Fatal("Loading() = true after a failed first fetch, want false")
	}

	q.Update(nil, errors.New("fail 2"))
	if snap := q.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after two failures: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	q.Update([]int{1}, nil)
	if snap := q.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("success should reset failures, got %d", snap.ConsecutiveFailures)
	}
}

func TestQuery_ConcurrentFetchSharesOneCall(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	q := sliceQuery(func(ctx context.Context) ([]int, error) {
		calls.Add(1)
		<-release
		return []int{1, 2, 3}, nil
	})

	const callers = 8
	var wg sync.WaitGroup
	started := make(chan struct{}, callers)
	results := make([][]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			data, err := q.Fetch(context.Background())
			if err != nil {
				t.Errorf("Fetch: %v", err)
			}
			results[i] = data
		}(i)
	}
	for i := 0; i < callers; i++ {
		<-started
	}
	// Give the goroutines time to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fetcher called %d times, want 1", got)
	}
	for i, r := range results {
		if len(r) != 3 {
			t.Fatalf("caller %d got %v", i, r)
		}
	}
}

func TestQuery_GetUsesCacheUntilInvalidated(t *testing.T) {
	var calls atomic.Int32
	q := sliceQuery(func(ctx context.Context) ([]int, error) {
		n := int(calls.Add(1))
		return []int{n}, nil
	})
	ctx := context.Background()

	first, err := q.Get(ctx)
	if err != nil || first[0] != 1 {
		t.Fatalf("Get = %v, %v", first, err)
	}
	again, _ := q.Get(ctx)
	if again[0] != 1 || calls.Load() != 1 {
		t.Fatalf("Get should serve cache; got %v after %d calls", again, calls.Load())
	}

	q.Invalidate()
	if !q.Snapshot().Stale {
		t.Fatal("Invalidate should mark snapshot stale")
	}
	fresh, _ := q.Get(ctx)
	if fresh[0] != 2 {
		t.Fatalf("Get after Invalidate = %v, want [2]", fresh)
	}
	if q.Snapshot().Stale {
		t.Fatal("successful fetch should clear Stale")
	}
}

func TestQuery_InvalidateDetachesInFlightFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	q := sliceQuery(func(ctx context.Context) ([]int, error) {
		if calls.Add(1) == 1 {
			<-release
			return []int{0}, nil
		}
		return []int{1}, nil
	})

	done := make(chan []int)
	go func() {
		data, _ := q.Fetch(context.Background())
		done <- data
	}()
	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := q.InvalidateAndRefetch(context.Background()); err != nil {
		t.Fatalf("InvalidateAndRefetch: %v", err)
	}
	close(release)
	if old := <-done; old[0] != 0 {
		t.Fatalf("detached caller got %v, want [0]", old)
	}

	if got := q.Snapshot().Data; len(got) != 1 || got[0] != 1 {
		t.Fatalf("cached data = %v, want post-invalidation [1]", got)
	}
}

func TestQuery_FetchHonoursCallerContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	q := sliceQuery(func(ctx context.Context) ([]int, error) {
		<-release
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := q.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch err = %v, want context.Canceled", err)
	}
}
