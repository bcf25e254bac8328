package list

import (
	"github.com/charmbracelet/bubbles/v2/key"
)

// KeyMap scrolls the list by lines, half pages and pages. Page sizes follow
// the list height.
type KeyMap struct {
	LineDown,
	LineUp,
	HalfPageDown,
	HalfPageUp,
	PageDown,
	PageUp,
	Top,
	Bottom key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		LineDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		LineUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "half page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", "space"),
			key.WithHelp("f/pgdn", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("b/pgup", "page up"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "oldest"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "newest"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(
			key.WithKeys("down", "up"),
			key.WithHelp("↑↓", "scroll"),
		),
		key.NewBinding(
			key.WithKeys("pgdown", "pgup"),
			key.WithHelp("f/b", "page"),
		),
		k.Bottom,
	}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.LineDown, k.LineUp},
		{k.HalfPageDown, k.HalfPageUp, k.PageDown, k.PageUp},
		{k.Top, k.Bottom},
	}
}
