package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Detail pane
	ToggleDetail key.Binding
	DetailUp     key.Binding
	DetailDown   key.Binding
	Copy         key.Binding

	// Catalog actions
	Filters      key.Binding
	ToggleRegex  key.Binding
	ClearFilters key.Binding
	AddColumn    key.Binding
	RemoveColumn key.Binding
	ToggleSort   key.Binding
	ToggleLive   key.Binding
	Reindex      key.Binding

	// Input
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
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
			key.WithHelp("esc", "Back to table"),
		),

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
			key.WithHelp("g", "First row"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last row"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "["),
			key.WithHelp("[/pgup", "Previous page"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "]"),
			key.WithHelp("]/pgdown", "Next page"),
		),

		ToggleDetail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Toggle detail"),
		),
		DetailUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Scroll detail up"),
		),
		DetailDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Scroll detail down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy record"),
		),

		Filters: key.NewBinding(
			key.WithKeys("/", "f"),
			key.WithHelp("/", "Edit filters"),
		),
		ToggleRegex: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Toggle regex"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Clear filters"),
		),
		AddColumn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Add column"),
		),
		RemoveColumn: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Remove column"),
		),
		ToggleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Toggle sort"),
		),
		ToggleLive: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle live"),
		),
		Reindex: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reindex"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Apply"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filters, k.AddColumn, k.ToggleDetail, k.ToggleSort, k.ToggleLive, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.ToggleDetail, k.DetailUp, k.DetailDown, k.Copy},
		{k.Filters, k.ToggleRegex, k.ClearFilters, k.NextField, k.Confirm, k.Escape},
		{k.AddColumn, k.RemoveColumn, k.ToggleSort, k.ToggleLive, k.Reindex},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
