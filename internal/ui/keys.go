package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// View switching
	ViewLogs key.Binding

	// Grid actions
	Search      key.Binding
	FilterTypes key.Binding
	FilterPrice key.Binding
	SortMenu    key.Binding
	ResetQuery  key.Binding
	Refresh     key.Binding
	SignOut     key.Binding

	// Pagination
	NextPage       key.Binding
	PrevPage       key.Binding
	GrowPageSize   key.Binding
	ShrinkPageSize key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Logs actions
	ToggleFollow key.Binding
	Reload       key.Binding

	// Modal/input
	Toggle  key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
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
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close/back"),
		),

		// View switching
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log view"),
		),

		// Grid actions
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search text"),
		),
		FilterTypes: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Filter types"),
		),
		FilterPrice: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Filter price"),
		),
		SortMenu: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort columns"),
		),
		ResetQuery: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Reset filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Refresh now"),
		),
		SignOut: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Sign out"),
		),

		// Pagination
		NextPage: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "Previous page"),
		),
		GrowPageSize: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Bigger pages"),
		),
		ShrinkPageSize: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Smaller pages"),
		),

		// Navigation
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

		// Logs actions
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),

		// Modal/input
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Up, k.Down, k.Top, k.Bottom, k.Tab},
		// Query
		{k.Search, k.FilterTypes, k.FilterPrice, k.SortMenu, k.ResetQuery},
		// Pagination
		{k.PrevPage, k.NextPage, k.GrowPageSize, k.ShrinkPageSize},
		// Logs
		{k.ViewLogs, k.ToggleFollow, k.Reload},
		// General
		{k.Refresh, k.SignOut, k.CycleTheme, k.Help, k.Quit},
	}
}
