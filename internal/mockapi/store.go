// Package mockapi is the in-memory record store standing in for a customer
// billing backend. Every call waits a configurable latency before touching
// the collection, so callers see the same asynchronous shape a real API
// would give them.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/five82/tally/internal/customer"
)

// DefaultLatency matches the delay of the original mock backend.
const DefaultLatency = 300 * time.Millisecond

// Op names a store operation for fault hooks.
type Op string

const (
	OpList   Op = "list"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ErrInjected is a ready-made failure for FailNext.
var ErrInjected = errors.New("mockapi: injected failure")

// Store holds the customer collection, newest-added first.
type Store struct {
	mu       sync.Mutex
	records  []customer.Customer
	seeded   bool
	latency  time.Duration
	now      func() time.Time
	lastID   int64
	fault    func(Op) error
	failNext error
}

// Option configures a Store.
type Option func(*Store)

// WithLatency sets the simulated round-trip delay. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(s *Store) {
		if d < 0 {
			d = 0
		}
		s.latency = d
	}
}

// WithClock replaces time.Now for id assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecords seeds the store with records instead of the embedded dataset.
func WithRecords(records []customer.Customer) Option {
	return func(s *Store) {
		s.records = append(make([]customer.Customer, 0, len(records)), records...)
		s.seeded = true
	}
}

// New builds a store seeded with the embedded dataset unless WithRecords is given.
func New(opts ...Option) (*Store, error) {
	s := &Store{latency: DefaultLatency, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if !s.seeded {
		records, err := DefaultSeed()
		if err != nil {
			return nil, err
		}
		s.records = records
	}
	return s, nil
}

// SetFault installs a hook consulted before every operation. A non-nil
// return fails the call without touching the collection.
func (s *Store) SetFault(fn func(Op) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fn
}

// FailNext makes the next operation return err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Len returns the current number of records without simulating latency.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// List returns a copy of the collection.
func (s *Store) List(ctx context.Context) ([]customer.Customer, error) {
	if err := s.begin(ctx, OpList); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]customer.Customer(nil), s.records...), nil
}

// Add assigns a fresh identifier and places the record first.
func (s *Store) Add(ctx context.Context, in customer.Input) (customer.Customer, error) {
	if err := s.begin(ctx, OpAdd); err != nil {
		return customer.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := in.WithID(s.nextIDLocked())
	s.records = append([]customer.Customer{created}, s.records...)
	return created, nil
}

// Update replaces every field of the record with the given id. Unknown ids
// leave the collection unchanged; the replacement is still returned.
func (s *Store) Update(ctx context.Context, id string, in customer.Input) (customer.Customer, error) {
	if err := s.begin(ctx, OpUpdate); err != nil {
		return customer.Customer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := in.WithID(id)
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i] = updated
		}
	}
	return updated, nil
}

// Delete removes every record whose id is listed.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if err := s.begin(ctx, OpDelete); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := s.records[:0]
	for _, rec := range s.records {
		if _, gone := drop[rec.ID]; !gone {
			kept = append(kept, rec)
		}
	}
	clear(s.records[len(kept):])
	s.records = kept
	return nil
}

// begin waits out the latency and then applies fault injection.
func (s *Store) begin(ctx context.Context, op Op) error {
	if err := s.wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failNext; err != nil {
		s.failNext = nil
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.fault != nil {
		if err := s.fault(op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (s *Store) wait(ctx context.Context) error {
	s.mu.Lock()
	latency := s.latency
	s.mu.Unlock()

	if latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nextIDLocked returns the current time in milliseconds, bumped past every
// id this store has issued and every id already in the collection.
func (s *Store) nextIDLocked() string {
	candidate := s.now().UnixMilli()
	if candidate <= s.lastID {
		candidate = s.lastID + 1
	}
	for s.hasIDLocked(strconv.FormatInt(candidate, 10)) {
		candidate++
	}
	s.lastID = candidate
	return strconv.FormatInt(candidate, 10)
}

func (s *Store) hasIDLocked(id string) bool {
	for _, rec := range s.records {
		if rec.ID == id {
			return true
		}
	}
	return false
}
