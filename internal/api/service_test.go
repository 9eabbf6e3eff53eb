package api

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/mockapi"
)

func newLocal(t *testing.T) (*Local, *mockapi.Store) {
	t.Helper()
	store, err := mockapi.New(mockapi.WithLatency(0))
	require.NoError(t, err)
	svc, err := NewLocal(store)
	require.NoError(t, err)
	return svc, store
}

func TestNewLocal_RejectsNilStore(t *testing.T) {
	_, err := NewLocal(nil)
	require.Error(t, err)
}

func TestLocal_CRUD(t *testing.T) {
	svc, _ := newLocal(t)
	ctx := context.Background()

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 14)

	in := customer.Input{Name: "Ada Lovelace", Description: "Analytical engine consulting", Status: customer.StatusDue, Rate: 120, Balance: -40, Deposit: 10}
	created, err := svc.AddCustomer(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, in, created.Input())

	in.Status = customer.StatusPaid
	updated, err := svc.UpdateCustomer(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, customer.StatusPaid, updated.Status)

	require.NoError(t, svc.DeleteCustomers(ctx, []string{created.ID}))
	list, err = svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 14)
}

func TestLocal_DeleteWithoutIDs(t *testing.T) {
	svc, store := newLocal(t)
	err := svc.DeleteCustomers(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoIDs)
	assert.Equal(t, 14, store.Len())
}

func TestLocal_UpdateWithoutID(t *testing.T) {
	svc, _ := newLocal(t)
	_, err := svc.UpdateCustomer(context.Background(), "  ", customer.DefaultInput())
	require.ErrorIs(t, err, ErrMissingID)
}

func TestLocal_WrapsStoreErrors(t *testing.T) {
	svc, store := newLocal(t)
	store.FailNext(mockapi.ErrInjected)

	_, err := svc.AddCustomer(context.Background(), customer.DefaultInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mockapi.ErrInjected))
	assert.Contains(t, err.Error(), "add customer")
}
