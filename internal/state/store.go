package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot represents the latest data available for one query.
type Snapshot[T any] struct {
	Data                T
	HasData             bool
	Stale               bool
	Fetching            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the backend has failed several fetches in a row.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Loading reports whether the first fetch is still outstanding.
func (s Snapshot[T]) Loading() bool {
	return !s.HasData && s.LastError == nil
}

// Fetcher loads the value for a query.
type Fetcher[T any] func(ctx context.Context) (T, error)

// QueryOption configures a Query.
type QueryOption[T any] func(*Query[T])

// WithClone sets the function used to copy data out of the cache.
// The default copies by assignment.
func WithClone[T any](clone func(T) T) QueryOption[T] {
	return func(q *Query[T]) {
		if clone != nil {
			q.clone = clone
		}
	}
}

// WithErrorHandler registers a callback for failed fetches.
func WithErrorHandler[T any](fn func(key string, err error)) QueryOption[T] {
	return func(q *Query[T]) {
		q.onError = fn
	}
}

// Query caches the result of one fetcher.
type Query[T any] struct {
	key     string
	fetch   Fetcher[T]
	clone   func(T) T
	onError func(key string, err error)

	group singleflight.Group

	mu         sync.RWMutex
	snapshot   Snapshot[T]
	generation uint64
}

// NewQuery returns an empty query for key.
func NewQuery[T any](key string, fetch Fetcher[T], opts ...QueryOption[T]) *Query[T] {
	q := &Query[T]{
		key:   key,
		fetch: fetch,
		clone: func(v T) T { return v },
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Key returns the cache key.
func (q *Query[T]) Key() string { return q.key }

// Snapshot returns a copy of the current snapshot.
func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.RLock()
	defer q.mu.RUnlock()

	snap := q.snapshot
	if snap.HasData {
		snap.Data = q.clone(q.snapshot.Data)
	}
	if q.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", q.snapshot.LastError)
	}
	return snap
}

// Update records the outcome of a fetch made outside the query. When err is
// non-nil the previous data is kept but the error is recorded for
// visibility.
func (q *Query[T]) Update(data T, err error) {
	q.mu.Lock()
	gen := q.generation
	q.mu.Unlock()
	q.apply(gen, data, err)
}

func (q *Query[T]) apply(gen uint64, data T, err error) {
	q.mu.Lock()
	if gen != q.generation {
		q.mu.Unlock()
		return
	}
	q.snapshot.Fetching = false
	q.snapshot.LastUpdated = time.Now()
	if err != nil {
		q.snapshot.LastError = err
		q.snapshot.ConsecutiveFailures++
		q.mu.Unlock()
		if q.onError != nil {
			q.onError(q.key, err)
		}
		return
	}
	q.snapshot.Data = q.clone(data)
	q.snapshot.HasData = true
	q.snapshot.Stale = false
	q.snapshot.LastError = nil
	q.snapshot.ConsecutiveFailures = 0
	q.mu.Unlock()
}

// Fetch calls the fetcher and stores the result. Callers that overlap an
// in-flight fetch wait for it instead of starting another. A caller whose
// ctx ends stops waiting; the shared fetch continues for the others.
func (q *Query[T]) Fetch(ctx context.Context) (T, error) {
	var zero T

	q.mu.Lock()
	gen := q.generation
	q.mu.Unlock()

	ch := q.group.DoChan(q.flightKey(gen), func() (any, error) {
		q.mu.Lock()
		if gen == q.generation {
			q.snapshot.Fetching = true
		}
		q.mu.Unlock()

		data, err := q.fetch(context.WithoutCancel(ctx))
		q.apply(gen, data, err)
		return data, err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		data, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("state: query %q returned %T", q.key, res.Val)
		}
		return q.clone(data), nil
	}
}

// Get returns cached data, fetching first when nothing fresh is cached.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	snap := q.Snapshot()
	if snap.HasData && !snap.Stale {
		return snap.Data, nil
	}
	return q.Fetch(ctx)
}

// Invalidate marks the cached data stale. Fetches already in flight are
// detached from the query.
func (q *Query[T]) Invalidate() {
	q.mu.Lock()
	q.generation++
	q.snapshot.Stale = true
	q.snapshot.Fetching = false
	q.mu.Unlock()
}

// InvalidateAndRefetch marks the data stale and fetches it again.
func (q *Query[T]) InvalidateAndRefetch(ctx context.Context) error {
	q.Invalidate()
	_, err := q.Fetch(ctx)
	return err
}

func (q *Query[T]) flightKey(gen uint64) string {
	return fmt.Sprintf("%s#%d", q.key, gen)
}
