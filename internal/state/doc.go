// Package state is the query and mutation cache between the data access
// layer and the UI.
//
// # Overview
//
// A Query holds the last successful result for one key together with the
// error bookkeeping the UI needs to render offline and loading states. The
// background refresher and the UI's mutation commands both write to it; the
// UI reads copies through Snapshot.
//
//	Refresher / mutation cmd:       UI (Update/View):
//	┌──────────────────────┐        ┌──────────────────┐
//	│ q.Fetch(ctx)         │        │                  │
//	│   singleflight       │        │                  │
//	│      ↓               │        │                  │
//	│ apply(data, err)     │───────→│ q.Snapshot()     │
//	│      (mutex)         │        │      ↓           │
//	└──────────────────────┘        │ table.Project()  │
//	                                └──────────────────┘
//
// # Update Semantics
//
// A failed fetch keeps the previous data, records the error and increments
// ConsecutiveFailures. A successful fetch replaces the data and resets the
// counter. Two or more consecutive failures mark the snapshot offline.
//
// Concurrent Fetch calls for one key share a single call to the fetcher.
// Invalidate marks the entry stale and detaches any fetch already in
// flight, so a read that follows an invalidation never receives data that
// was requested before it. Results of detached fetches are returned to
// their callers but are not stored.
//
// # Mutations
//
// Mutate runs a write against the backend. On success every registered
// query is invalidated and refetched before Mutate returns; on failure no
// cached data is touched and the client's mutation error hook fires. Each
// mutation is logged with a request id.
package state
