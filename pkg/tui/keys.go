package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Search key.Binding
	Pass   key.Binding
	Fail   key.Binding
	Skip   key.Binding
	Reset  key.Binding
	Menu   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Escape key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "details")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "name")),
		Pass:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "pass")),
		Fail:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "fail")),
		Skip:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "skip")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Menu:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "libraries")),
		Next:   key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next library")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("shift+tab", "prev library")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Pass, k.Fail, k.Skip, k.Reset, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Search, k.Pass, k.Fail, k.Skip, k.Reset},
		{k.Menu, k.Next, k.Prev, k.Escape},
		{k.Help, k.Quit},
	}
}

// setMulti enables the library bindings only for multi-library reports.
func (k *keyMap) setMulti(multi bool) {
	k.Menu.SetEnabled(multi)
	k.Next.SetEnabled(multi)
	k.Prev.SetEnabled(multi)
}
