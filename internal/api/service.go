package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/mockapi"
)

var (
	// ErrNoIDs is returned by DeleteCustomers when no identifiers are given.
	ErrNoIDs = errors.New("no customer ids given")
	// ErrMissingID is returned by UpdateCustomer when the identifier is blank.
	ErrMissingID = errors.New("customer id required")
)

// Service is the customer data access contract.
type Service interface {
	ListCustomers(ctx context.Context) ([]customer.Customer, error)
	AddCustomer(ctx context.Context, in customer.Input) (customer.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in customer.Input) (customer.Customer, error)
	DeleteCustomers(ctx context.Context, ids []string) error
}

// Ensure Local implements Service at compile time.
var _ Service = (*Local)(nil)

// Local serves customers from an in-process store.
type Local struct {
	store *mockapi.Store
}

// NewLocal wraps store.
func NewLocal(store *mockapi.Store) (*Local, error) {
	if store == nil {
		return nil, fmt.Errorf("api: store is nil")
	}
	return &Local{store: store}, nil
}

// ListCustomers returns every customer.
func (l *Local) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	list, err := l.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return list, nil
}

// AddCustomer creates a customer; the store assigns the identifier.
func (l *Local) AddCustomer(ctx context.Context, in customer.Input) (customer.Customer, error) {
	created, err := l.store.Add(ctx, in)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("add customer: %w", err)
	}
	return created, nil
}

// UpdateCustomer replaces every field of customer id.
func (l *Local) UpdateCustomer(ctx context.Context, id string, in customer.Input) (customer.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return customer.Customer{}, fmt.Errorf("update customer: %w", ErrMissingID)
	}
	updated, err := l.store.Update(ctx, id, in)
	if err != nil {
		return customer.Customer{}, fmt.Errorf("update customer %s: %w", id, err)
	}
	return updated, nil
}

// DeleteCustomers removes every listed customer.
func (l *Local) DeleteCustomers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("delete customers: %w", ErrNoIDs)
	}
	if err := l.store.Delete(ctx, ids); err != nil {
		return fmt.Errorf("delete customers: %w", err)
	}
	return nil
}
