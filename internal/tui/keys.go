package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings. Scene bindings live in the scenes package.
type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Help key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "nästa vy")),
	Prev: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "föregående vy")),
	Help: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "hjälp")),
	Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "avsluta")),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
