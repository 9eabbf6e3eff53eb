package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Logs       key.Binding
	Refresh    key.Binding

	// Table
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	NextPage     key.Binding
	PrevPage     key.Binding
	MoreRows     key.Binding
	FewerRows    key.Binding
	ToggleRow    key.Binding
	TogglePage   key.Binding
	ToggleSort   key.Binding
	ClearChecked key.Binding

	// Actions
	New        key.Binding
	View       key.Binding
	Edit       key.Binding
	DeleteRow  key.Binding
	DeleteMany key.Binding

	// Form and dialogs
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding

	// Logs
	CycleLevel   key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Logs"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),

		// Table
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "Previous page"),
		),
		MoreRows: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More rows per page"),
		),
		FewerRows: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Fewer rows per page"),
		),
		ToggleRow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Select row"),
		),
		TogglePage: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select page"),
		),
		ToggleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort by id"),
		),
		ClearChecked: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear selection"),
		),

		// Actions
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Add / edit selected"),
		),
		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "View"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "Edit"),
		),
		DeleteRow: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete row"),
		),
		DeleteMany: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete selected"),
		),

		// Form and dialogs
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "Submit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "Cancel"),
		),

		// Logs
		CycleLevel: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle level filter"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
	}
}

// ShortHelp returns bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PrevPage, k.NextPage, k.MoreRows, k.FewerRows},
		{k.ToggleRow, k.TogglePage, k.ClearChecked, k.ToggleSort},
		{k.New, k.View, k.Edit, k.DeleteRow, k.DeleteMany, k.Refresh},
		{k.Logs, k.CycleTheme, k.Help, k.Escape, k.Quit},
	}
}
