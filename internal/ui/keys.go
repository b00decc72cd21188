package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the console.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextView   key.Binding
	PrevView   key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Timelines and scenes
	Start   key.Binding
	Release key.Binding
	Toggle  key.Binding
	Pause   key.Binding
	Resume  key.Binding

	// Groups and spaces
	LevelUp   key.Binding
	LevelDown key.Binding
	SetLevel  key.Binding

	// Triggers
	Fire key.Binding

	// Prompt
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
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
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Start"),
		),
		Release: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Release"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pause timeline"),
		),
		Resume: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Resume timeline"),
		),

		LevelUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Level +10%"),
		),
		LevelDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Level -10%"),
		),
		SetLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Type a level"),
		),

		Fire: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Fire trigger"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.Up, k.Down, k.Top, k.Bottom},
		{k.Start, k.Release, k.Toggle, k.Pause, k.Resume},
		{k.LevelUp, k.LevelDown, k.SetLevel},
		{k.Fire},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
