package internal

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	StartStop   key.Binding
	Reset       key.Binding
	Orientation key.Binding
	Lean        key.Binding
	Digits      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var DefaultKeyMap = KeyMap{
	StartStop:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space/right click", "start/stop")),
	Reset:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/double right click", "reset")),
	Orientation: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle orientation")),
	Lean:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lean")),
	Digits: key.NewBinding(
		key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("0-9", "type MMSS"),
	),
	Help: key.NewBinding(key.WithKeys("f1", "?"), key.WithHelp("?", "help")),
	Quit: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartStop, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartStop, k.Reset, k.Digits},
		{k.Orientation, k.Lean},
		{k.Help, k.Quit},
	}
}
