// Package heartbit draws the placeholder shown while a list is empty.
package heartbit

import (
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vscroll/internal/tui/styles"
)

var Primary = heredoc.Doc(`
    ▄▄▄▄▄▄▄▄    ▄▄▄▄▄▄▄▄
  ███████████  ███████████
████████████████████████████
████████████████████████████
██████████▀██████▀██████████
██████████ ██████ ██████████
▀▀██████▄████▄▄████▄██████▀▀
  ████████████████████████
    ████████████████████
       ▀▀██████████▀▀
           ▀▀▀▀▀▀
`)

type Heartbit struct {
	face    string
	caption string
}

func Standard(caption string) *Heartbit {
	return &Heartbit{
		face:    strings.TrimRight(Primary, "\n"),
		caption: caption,
	}
}

// Render centers the face and its caption in a width by height area. The
// face is dropped when it does not fit.
func (h *Heartbit) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	s := styles.CurrentTheme().S()
	caption := s.Muted.Render(h.caption)
	content := caption
	face := s.Title.Render(h.face)
	if lipgloss.Width(face) <= width && lipgloss.Height(face)+2 <= height {
		content = lipgloss.JoinVertical(lipgloss.Center, face, "", caption)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
