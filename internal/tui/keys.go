package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	End    key.Binding
	Ignore key.Binding
	Close  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		End:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end session")),
		Ignore: key.NewBinding(key.WithKeys("enter", "tab", "backspace")),
		Close:  key.NewBinding(key.WithKeys("q", "esc", "enter"), key.WithHelp("q", "quit")),
	}
}
