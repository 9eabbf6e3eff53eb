package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tally/internal/customer"
	"github.com/five82/tally/internal/state"
)

// Mutation operations, as logged and reported back to Update.
const (
	opAdd    = "add_customer"
	opUpdate = "update_customer"
	opDelete = "delete_customers"
)

var errNoService = errors.New("no customer service configured")

// mutationDoneMsg reports a finished mutation. It is sent only after the
// store call and the follow-up refetch have completed.
type mutationDoneMsg struct {
	op  string
	ids []string
	err error
}

// mutate runs fn through the query client so that a success refetches the
// collection before the result message is delivered.
func (m Model) mutate(op string, ids []string, fn func(ctx context.Context) error) tea.Cmd {
	ctx, client, svc := m.ctx, m.client, m.service
	return func() tea.Msg {
		if svc == nil {
			return mutationDoneMsg{op: op, ids: ids, err: errNoService}
		}
		_, err := state.Mutate(ctx, client, state.Mutation{Op: op, IDs: ids}, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
		return mutationDoneMsg{op: op, ids: ids, err: err}
	}
}

func (m Model) addCustomerCmd(in customer.Input) tea.Cmd {
	svc := m.service
	return m.mutate(opAdd, nil, func(ctx context.Context) error {
		_, err := svc.AddCustomer(ctx, in)
		return err
	})
}

func (m Model) updateCustomerCmd(id string, in customer.Input) tea.Cmd {
	svc := m.service
	return m.mutate(opUpdate, []string{id}, func(ctx context.Context) error {
		_, err := svc.UpdateCustomer(ctx, id, in)
		return err
	})
}

func (m Model) deleteCustomersCmd(ids []string) tea.Cmd {
	svc := m.service
	return m.mutate(opDelete, ids, func(ctx context.Context) error {
		return svc.DeleteCustomers(ctx, ids)
	})
}

// handleMutationDone applies the continuation steps of a finished
// mutation. Failures leave the form or dialog open and the selection as
// it was.
func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	if m.query != nil {
		m.applySnapshot(m.query.Snapshot())
	}

	if msg.err != nil {
		m.pushError(msg.err, mutationFallback)
		if m.form != nil && !m.sel.Modal().ViewOnly {
			m.form.setFocus(m.form.focus)
		}
		return m, nil
	}

	switch msg.op {
	case opAdd:
		m.closeForm()
		m.pushSuccess("Customer added successfully")
	case opUpdate:
		m.closeForm()
		m.pushSuccess("Customer updated successfully")
	case opDelete:
		m.sel.Selected.RemoveAll(msg.ids)
		m.confirm = nil
		m.engine.Clamp(len(m.rows()))
		m.clampCursor()
		m.pushSuccess("Customers deleted successfully")
	}
	return m, nil
}
