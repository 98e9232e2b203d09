package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds every dashboard binding. It doubles as the help.KeyMap.
type keyMap struct {
	MinusHour     key.Binding
	MinusHalfHour key.Binding
	PlusHalfHour  key.Binding
	PlusHour      key.Binding
	Edit          key.Binding
	Undo          key.Binding
	Settings      key.Binding
	Theme         key.Binding
	Reset         key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		MinusHour: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "-1h"),
		),
		MinusHalfHour: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "-30m"),
		),
		PlusHalfHour: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("alt+3", "+30m"),
		),
		PlusHour: key.NewBinding(
			key.WithKeys("alt+4"),
			key.WithHelp("alt+4", "+1h"),
		),
		Edit: key.NewBinding(
			key.WithKeys("alt+e", "e"),
			key.WithHelp("e", "edit remaining"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "u"),
			key.WithHelp("u/^z", "undo"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "quota settings"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "light/dark"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset to defaults"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Undo, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.MinusHour, k.MinusHalfHour, k.PlusHalfHour, k.PlusHour},
		{k.Edit, k.Undo, k.Settings},
		{k.Theme, k.Reset, k.Help, k.Quit},
	}
}
