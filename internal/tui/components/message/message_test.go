package message

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mount(t *testing.T, msg *Message, markdown bool, width int) *messageCmp {
	t.Helper()
	item := Item(msg, markdown)
	require.Equal(t, msg.ID, item.ID)
	unit, ok := item.Factory.Create().(*messageCmp)
	require.True(t, ok)
	unit.SetWidth(width)
	return unit
}

func TestMessageView(t *testing.T) {
	t.Parallel()

	t.Run("plain text wraps to the width", func(t *testing.T) {
		t.Parallel()
		msg := New(User, "You", strings.Repeat("word ", 20))
		narrow := mount(t, msg, false, 20)
		wide := mount(t, msg, false, 80)

		assert.Contains(t, ansi.Strip(narrow.View()), "You")
		assert.Greater(t, lipgloss.Height(narrow.View()), lipgloss.Height(wide.View()))
		for _, line := range strings.Split(narrow.View(), "\n") {
			assert.LessOrEqual(t, ansi.StringWidth(line), 20)
		}
	})

	t.Run("streamed chunks grow the unit", func(t *testing.T) {
		t.Parallel()
		msg := New(Assistant, "Assistant", "")
		unit := mount(t, msg, false, 30)
		assert.Contains(t, unit.View(), "…")
		before := lipgloss.Height(unit.View())

		for range 10 {
			msg.Append("streaming text ")
		}
		assert.Contains(t, ansi.Strip(unit.View()), "streaming")
		assert.Greater(t, lipgloss.Height(unit.View()), before)
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()
		msg := New(Assistant, "Assistant", "# Title\n\nSome **bold** text.")
		unit := mount(t, msg, true, 60)
		view := ansi.Strip(unit.View())
		assert.Contains(t, view, "Title")
		assert.Contains(t, view, "bold")
		assert.NotContains(t, view, "**")
	})

	t.Run("dispose drops the render cache", func(t *testing.T) {
		t.Parallel()
		msg := New(System, "System", "saved")
		item := Item(msg, false)
		unit := item.Factory.Create().(*messageCmp)
		unit.SetWidth(40)
		unit.View()
		require.NotEmpty(t, unit.rendered)

		item.Factory.Dispose(unit)
		assert.Empty(t, unit.rendered)
	})
}

func TestRole(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "user", User.String())
	assert.Equal(t, "assistant", Assistant.String())
	assert.Equal(t, "system", System.String())
}

func TestGenerator(t *testing.T) {
	t.Parallel()

	a := NewGenerator(7).Messages(40)
	b := NewGenerator(7).Messages(40)
	require.Len(t, a, 40)
	ids := make(map[string]bool)
	for i := range a {
		assert.Equal(t, a[i].Body, b[i].Body)
		assert.Equal(t, a[i].Role, b[i].Role)
		assert.NotEmpty(t, a[i].Body)
		ids[a[i].ID] = true
	}
	assert.Len(t, ids, 40)
	assert.Equal(t, User, a[0].Role)
	assert.Equal(t, Assistant, a[1].Role)
	assert.Equal(t, System, a[16].Role)

	chunks := NewGenerator(1).Chunks()
	require.NotEmpty(t, chunks)
	assert.NotEmpty(t, strings.Join(chunks, ""))
}
