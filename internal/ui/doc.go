// Package ui provides the terminal user interface for tally.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds all UI state and is updated
// only on the Bubble Tea goroutine; service calls run as tea.Cmds and report
// back as messages. Rendering uses Lipgloss with the palettes in theme.go,
// and inputs come from Bubbles (textinput, viewport, spinner, key).
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View and the Run entry point
//   - table.go: customer table, footer, cursor and selection keys
//   - form.go: add/edit/view modal backed by customer.ParseForm
//   - confirm.go: delete confirmation dialog
//   - mutations.go: add/update/delete commands and their continuations
//   - toast.go: transient success and error notifications
//   - header.go: status bar and command bar
//   - logs.go: application log tail with a level filter
//   - help.go: keyboard shortcut overlay
//   - theme.go, style_helpers.go, strings.go: styling and text helpers
//
// # Data Flow
//
// Customers are read from a state.Query snapshot, which the app package
// keeps fresh in the background; the model re-reads it on every tick. The
// table.Engine projects the snapshot into the visible page and applies
// selection changes to the shared selection.Store. Mutations go through
// state.Mutate, which refetches the collection before the result message is
// delivered, so the continuation (close the form, drop deleted ids from the
// selection) always sees the refreshed data.
//
// # Key Bindings
//
// Table:
//
//   - j/k, g/G: move the cursor
//   - ←/→: previous/next page
//   - +/-: rows per page (5, 10, 15, 20, 30, 40, 50; returns to page 1)
//   - s: toggle ascending/descending id sort
//   - space: select the row under the cursor
//   - a: select or clear every row on the page
//   - c: clear the selection
//   - n: add a customer, or edit the only selected one
//   - v: view details; e inside switches to edit
//   - enter/e: edit
//   - x: delete the row under the cursor
//   - d: delete every selected customer
//   - r: refetch
//
// Global:
//
//   - L: toggle the log view
//   - T: cycle theme
//   - ?: help
//   - q, ctrl+c: quit
//
// Theme and rows per page are saved to the preferences file.
package ui
