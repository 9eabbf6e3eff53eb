package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// CustomersKey is the cache key of the customer collection.
const CustomersKey = "customers"

type refetcher interface {
	Key() string
	Invalidate()
	InvalidateAndRefetch(ctx context.Context) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for mutation and query events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// OnQueryError registers a callback for failed fetches of any query.
func OnQueryError(fn func(key string, err error)) ClientOption {
	return func(c *Client) {
		c.onQueryError = fn
	}
}

// OnMutationError registers a callback for failed mutations.
func OnMutationError(fn func(op string, err error)) ClientOption {
	return func(c *Client) {
		c.onMutationError = fn
	}
}

// Client groups queries by key and runs mutations against them.
type Client struct {
	logger          *slog.Logger
	onQueryError    func(key string, err error)
	onMutationError func(op string, err error)

	mu      sync.RWMutex
	queries map[string]refetcher
	order   []string
}

// NewClient returns a client with no registered queries.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:  slog.New(slog.DiscardHandler),
		queries: make(map[string]refetcher),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates a query for key on c. Registering a key twice is a
// programming error and panics.
func Register[T any](c *Client, key string, fetch Fetcher[T], opts ...QueryOption[T]) *Query[T] {
	all := append([]QueryOption[T]{WithErrorHandler[T](c.queryFailed)}, opts...)
	q := NewQuery(key, fetch, all...)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.queries[key]; exists {
		panic(fmt.Sprintf("state: query %q already registered", key))
	}
	c.queries[key] = q
	c.order = append(c.order, key)
	return q
}

func (c *Client) queryFailed(key string, err error) {
	c.logger.Warn("query failed", "key", key, "err", err)
	if c.onQueryError != nil {
		c.onQueryError(key, err)
	}
}

func (c *Client) lookup(keys []string) []refetcher {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(keys) == 0 {
		keys = c.order
	}
	out := make([]refetcher, 0, len(keys))
	for _, key := range keys {
		if q, ok := c.queries[key]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Invalidate marks the named queries stale, or every query when no key is
// given.
func (c *Client) Invalidate(keys ...string) {
	for _, q := range c.lookup(keys) {
		q.Invalidate()
	}
}

// InvalidateAndRefetch invalidates the named queries, or all of them, and
// refetches each before returning.
func (c *Client) InvalidateAndRefetch(ctx context.Context, keys ...string) error {
	var errs []error
	for _, q := range c.lookup(keys) {
		if err := q.InvalidateAndRefetch(ctx); err != nil {
			errs = append(errs, fmt.Errorf("refetch %s: %w", q.Key(), err))
		}
	}
	return errors.Join(errs...)
}

// Mutation describes a write for logging.
type Mutation struct {
	Op  string
	IDs []string
}

// Mutate runs fn. On success every query is invalidated and refetched
// before Mutate returns; a failed refetch is recorded on the query and does
// not fail the mutation. On failure cached data is left untouched.
func Mutate[R any](ctx context.Context, c *Client, m Mutation, fn func(ctx context.Context) (R, error)) (R, error) {
	requestID := uuid.NewString()
	logger := c.logger.With("op", m.Op, "request_id", requestID)
	if len(m.IDs) > 0 {
		logger = logger.With("ids", m.IDs)
	}

	result, err := fn(ctx)
	if err != nil {
		logger.Error("mutation failed", "err", err)
		if c.onMutationError != nil {
			c.onMutationError(m.Op, err)
		}
		return result, err
	}
	logger.Info("mutation applied")

	if err := c.InvalidateAndRefetch(ctx); err != nil {
		logger.Warn("refetch after mutation failed", "err", err)
	}
	return result, nil
}
