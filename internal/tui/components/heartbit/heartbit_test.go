package heartbit

import (
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	h := Standard("nothing here yet")
	assert.Empty(t, h.Render(0, 10))

	big := h.Render(60, 20)
	assert.Equal(t, 20, lipgloss.Height(big))
	assert.Equal(t, 60, lipgloss.Width(big))
	assert.Contains(t, ansi.Strip(big), "████")
	assert.Contains(t, ansi.Strip(big), "nothing here yet")

	small := h.Render(20, 3)
	assert.Equal(t, 3, lipgloss.Height(small))
	assert.NotContains(t, ansi.Strip(small), "████")
	assert.Contains(t, ansi.Strip(small), "nothing here")
}
