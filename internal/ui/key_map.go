package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	tab      key.Binding
	toggle   key.Binding
	next     key.Binding
	previous key.Binding
	back     key.Binding
	forward  key.Binding
	louder   key.Binding
	quieter  key.Binding
	mute     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		back:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "rewind")),
		forward:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "forward")),
		louder:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		quieter:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "volume down")),
		mute:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.previous, k.enter, k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.tab},
		{k.toggle, k.next, k.previous, k.back, k.forward},
		{k.louder, k.quieter, k.mute, k.quit},
	}
}
