package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	NextPlan  key.Binding
	PrevPlan  key.Binding
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleDay key.Binding
	Record    key.Binding
	Help      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ToggleDay, k.Record, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPlan, k.PrevPlan},
		{k.Toggle, k.ToggleDay, k.Record},
		{k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPlan: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next plan"),
		),
		PrevPlan: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev plan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle topic"),
		),
		ToggleDay: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle day"),
		),
		Record: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record activity"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}
