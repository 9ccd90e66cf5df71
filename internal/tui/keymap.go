package tui

import (
	"charm.land/bubbles/v2/key"
)

type keyMap struct {
	Quit       key.Binding
	Presence   key.Binding
	Links      key.Binding
	Toggle     key.Binding
	Refresh    key.Binding
	Next       key.Binding
	Prev       key.Binding
	Open       key.Binding
	ToggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Presence: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "presence"),
		),
		Links: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "links"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("space", "m"),
			key.WithHelp("space", "more activities"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "tab", "j"),
			key.WithHelp("↓/tab", "next link"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "prev link"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open link"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Presence,
		k.Links,
		k.Toggle,
		k.Refresh,
		k.ToggleHelp,
		k.Quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Presence, k.Links, k.ToggleHelp, k.Quit},
		{k.Toggle, k.Refresh},
		{k.Next, k.Prev, k.Open},
	}
}
