package tui

import (
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/vscroll/internal/tui/exp/list"
)

type KeyMap struct {
	Quit,
	Search,
	Stream,
	Remove,
	Clear,
	Follow,
	Bottom key.Binding

	// Active while searching.
	Accept,
	Cancel,
	NextMatch key.Binding

	// Handed to the list.
	List list.KeyMap
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump"),
		),
		Stream: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stream reply"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "drop newest"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Follow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "follow"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("ctrl+n", "down"),
			key.WithHelp("ctrl+n", "next match"),
		),
		List: list.DefaultKeyMap(),
	}
}

// KeyBindings returns the bindings active outside of search.
func (k KeyMap) KeyBindings() []key.Binding {
	return []key.Binding{
		k.Search,
		k.Stream,
		k.Remove,
		k.Clear,
		k.Follow,
		k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	m := [][]key.Binding{}
	slice := k.KeyBindings()
	for i := 0; i < len(slice); i += 4 {
		end := min(i+4, len(slice))
		m = append(m, slice[i:end])
	}
	return append(m, k.List.FullHelp()...)
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return k.KeyBindings()
}

type searchKeyMap struct {
	KeyMap
}

func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMatch, k.Accept, k.Cancel}
}

func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
