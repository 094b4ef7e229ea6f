package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/conorfennell/kanjikoto/internal/deck"
)

type keyMap struct {
	Flip   key.Binding
	Fail   key.Binding
	Repeat key.Binding
	Learn  key.Binding
	Pass   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Fail, k.Pass, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Fail, k.Repeat, k.Learn, k.Pass},
		{k.Help, k.Quit},
	}
}

// event maps an answer key to its deck event.
func (k keyMap) event(msg tea.KeyMsg) (deck.Event, bool) {
	switch {
	case key.Matches(msg, k.Fail):
		return deck.Fail, true
	case key.Matches(msg, k.Repeat):
		return deck.Repeat, true
	case key.Matches(msg, k.Learn):
		return deck.Learn, true
	case key.Matches(msg, k.Pass):
		return deck.Pass, true
	}
	return 0, false
}

var keys = keyMap{
	Flip: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "flip"),
	),
	Fail: key.NewBinding(
		key.WithKeys("1", "f"),
		key.WithHelp("1/f", "fail"),
	),
	Repeat: key.NewBinding(
		key.WithKeys("2", "r"),
		key.WithHelp("2/r", "repeat"),
	),
	Learn: key.NewBinding(
		key.WithKeys("3", "l"),
		key.WithHelp("3/l", "learn"),
	),
	Pass: key.NewBinding(
		key.WithKeys("4", "p"),
		key.WithHelp("4/p", "pass"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
