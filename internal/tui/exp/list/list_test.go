package list

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vscroll/internal/virtual"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lineItem renders a fixed number of numbered lines.
type lineItem struct {
	id    string
	lines int
}

func (i *lineItem) View() string {
	lines := make([]string, i.lines)
	for n := range lines {
		lines[n] = fmt.Sprintf("%s %d", i.id, n+1)
	}
	return strings.Join(lines, "\n")
}

// wrapItem breaks its text into lines of the current width.
type wrapItem struct {
	text  string
	width int
}

func (i *wrapItem) SetWidth(width int) {
	i.width = width
}

func (i *wrapItem) View() string {
	if i.width <= 0 {
		return i.text
	}
	var lines []string
	for rest := i.text; rest != ""; {
		n := min(i.width, len(rest))
		lines = append(lines, rest[:n])
		rest = rest[n:]
	}
	return strings.Join(lines, "\n")
}

type itemFactory struct {
	item     Item
	disposed int
}

func (f *itemFactory) Create() Item  { return f.item }
func (f *itemFactory) Dispose(Item) { f.disposed++ }

func lineItems(prefix string, n, lines int) []virtual.Item[Item] {
	items := make([]virtual.Item[Item], 0, n)
	for i := range n {
		id := fmt.Sprintf("%s-%d", prefix, i)
		items = append(items, virtual.Item[Item]{
			ID:      id,
			Factory: virtual.FactoryFunc[Item](func() Item { return &lineItem{id: id, lines: lines} }),
		})
	}
	return items
}

func virtualized(opts ...ListOption) *List {
	opts = append([]ListOption{
		WithScrollerOptions(
			virtual.WithThreshold(5),
			virtual.WithOverscan(1),
			virtual.WithEstimatedHeight(2),
		),
	}, opts...)
	return New(opts...)
}

func execCmd(m tea.Model, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		m, cmd = m.Update(msg)
	}
}

func TestListView(t *testing.T) {
	t.Parallel()

	t.Run("direct mode", func(t *testing.T) {
		t.Parallel()
		l := New(WithSize(20, 6), WithGap(1))
		l.SetItems([]virtual.Item[Item]{
			{ID: "a", Factory: virtual.FactoryFunc[Item](func() Item { return &lineItem{id: "a", lines: 2} })},
			{ID: "b", Factory: virtual.FactoryFunc[Item](func() Item { return &lineItem{id: "b", lines: 2} })},
			{ID: "c", Factory: virtual.FactoryFunc[Item](func() Item { return &lineItem{id: "c", lines: 2} })},
		})

		assert.Equal(t, virtual.ModeDirect, l.Mode())
		assert.Equal(t, 6, lipgloss.Height(l.View()))
		golden.RequireEqual(t, []byte(l.View()))
	})

	t.Run("virtualized after scrolling", func(t *testing.T) {
		t.Parallel()
		l := virtualized(WithSize(20, 4))
		l.SetItems(lineItems("item", 20, 2))
		require.Equal(t, virtual.ModeVirtualized, l.Mode())
		require.Equal(t, virtual.Range{Start: 0, End: 3}, l.Window())

		cmd := l.MoveDown(7)
		require.NotNil(t, cmd)
		l.Flush()

		assert.Equal(t, 7, l.Offset())
		assert.Equal(t, virtual.Range{Start: 2, End: 7}, l.Window())
		golden.RequireEqual(t, []byte(l.View()))
	})

	t.Run("go to bottom", func(t *testing.T) {
		t.Parallel()
		l := virtualized(WithSize(20, 5))
		l.SetItems(lineItems("item", 20, 2))

		l.GoToBottom()
		assert.True(t, l.IsAtBottom())
		assert.Equal(t, 35, l.Offset())
		assert.Equal(t, virtual.Range{Start: 16, End: 20}, l.Window())
		golden.RequireEqual(t, []byte(l.View()))
	})

	t.Run("lines are cut to the width", func(t *testing.T) {
		t.Parallel()
		l := New(WithSize(3, 2))
		l.SetItems(lineItems("long", 1, 2))
		assert.Equal(t, "lon\nlon", l.View())
	})

	t.Run("empty before sizing", func(t *testing.T) {
		t.Parallel()
		l := New()
		l.SetItems(lineItems("item", 3, 1))
		assert.Empty(t, l.View())
	})
}

func TestListScrolling(t *testing.T) {
	t.Parallel()

	t.Run("offset is clamped", func(t *testing.T) {
		t.Parallel()
		l := New(WithSize(10, 4))
		l.SetItems(lineItems("item", 3, 2))

		l.MoveUp(5)
		assert.Equal(t, 0, l.Offset())
		l.MoveDown(100)
		assert.Equal(t, 2, l.Offset())
		l.GoToTop()
		assert.Equal(t, 0, l.Offset())
	})

	t.Run("keys", func(t *testing.T) {
		t.Parallel()
		l := New(WithSize(10, 4))
		l.SetItems(lineItems("item", 10, 2))

		l.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
		assert.Equal(t, 1, l.Offset())
		l.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})
		assert.Equal(t, 3, l.Offset())
		l.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
		assert.Equal(t, 7, l.Offset())
		l.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
		assert.Equal(t, 6, l.Offset())
		l.Update(tea.KeyPressMsg{Code: 'G', Text: "G"})
		assert.Equal(t, 16, l.Offset())
		assert.True(t, l.IsAtBottom())
		l.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
		assert.Equal(t, 0, l.Offset())
	})

	t.Run("custom key map", func(t *testing.T) {
		t.Parallel()
		km := DefaultKeyMap()
		km.LineDown = key.NewBinding(key.WithKeys("n"))
		l := New(WithSize(10, 4), WithKeyMap(km))
		l.SetItems(lineItems("item", 10, 2))

		l.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
		assert.Zero(t, l.Offset())
		l.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
		assert.Equal(t, 1, l.Offset())
		l.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
		assert.Equal(t, 5, l.Offset())
	})

	t.Run("mouse wheel", func(t *testing.T) {
		t.Parallel()
		l := New(WithSize(10, 4))
		l.SetItems(lineItems("item", 10, 2))

		l.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
		assert.Equal(t, 0, l.Offset())

		l = New(WithSize(10, 4), WithEnableMouse())
		l.SetItems(lineItems("item", 10, 2))
		l.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
		assert.Equal(t, ViewportDefaultScrollSize, l.Offset())
		l.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
		assert.Equal(t, 0, l.Offset())
	})

	t.Run("frames flush through the update loop", func(t *testing.T) {
		t.Parallel()
		l := virtualized(WithSize(20, 4), WithFPS(1000))
		l.SetItems(lineItems("item", 20, 2))

		cmd := l.MoveDown(7)
		require.NotNil(t, cmd)
		assert.Nil(t, l.MoveDown(1), "a tick is already in flight")

		execCmd(l, cmd)
		assert.False(t, l.frames.Pending())
		assert.Equal(t, 8, l.Offset())
		assert.Equal(t, virtual.Range{Start: 3, End: 7}, l.Window())
	})

	t.Run("frames of other lists are ignored", func(t *testing.T) {
		t.Parallel()
		a := virtualized(WithSize(20, 4))
		b := virtualized(WithSize(20, 4))
		a.SetItems(lineItems("item", 20, 2))
		a.MoveDown(7)

		a.Update(FrameMsg{id: b.id})
		assert.True(t, a.frames.Pending())
		a.Update(FrameMsg{id: a.id})
		assert.False(t, a.frames.Pending())
	})

	t.Run("scroll to item", func(t *testing.T) {
		t.Parallel()
		l := virtualized(WithSize(20, 4))
		l.SetItems(lineItems("item", 20, 2))

		l.ScrollToItem("item-10")
		assert.Equal(t, 20, l.Offset())
		assert.True(t, strings.HasPrefix(l.View(), "item-10 1"))
	})
}

func TestListSizing(t *testing.T) {
	t.Parallel()

	t.Run("width changes are measured", func(t *testing.T) {
		t.Parallel()
		wrapped := &wrapItem{text: strings.Repeat("x", 20)}
		items := append([]virtual.Item[Item]{
			{ID: "wrap", Factory: &itemFactory{item: wrapped}},
		}, lineItems("item", 10, 2)...)

		l := virtualized(WithSize(10, 4))
		l.SetItems(items)
		h, ok := l.scroller.Height("wrap")
		require.True(t, ok)
		assert.Equal(t, 2.0, h)

		l.SetSize(5, 4)
		assert.Equal(t, 5, wrapped.width)
		h, _ = l.scroller.Height("wrap")
		assert.Equal(t, 4.0, h)
		assert.Equal(t, "xxxxx\nxxxxx\nxxxxx\nxxxxx", l.View())
	})

	t.Run("zero height defers the window", func(t *testing.T) {
		t.Parallel()
		l := virtualized()
		l.SetItems(lineItems("item", 20, 2))
		assert.True(t, l.Window().Empty())

		cmd := l.SetSize(20, 4)
		require.NotNil(t, cmd)
		l.Flush()
		assert.Equal(t, virtual.Range{Start: 0, End: 3}, l.Window())
		assert.Equal(t, 4, lipgloss.Height(l.View()))
	})

	t.Run("refresh picks up in place changes", func(t *testing.T) {
		t.Parallel()
		grow := &lineItem{id: "grow", lines: 1}
		l := New(WithSize(10, 10))
		l.AppendItem(virtual.Item[Item]{ID: "grow", Factory: &itemFactory{item: grow}})
		assert.Equal(t, 1.0, l.ScrollExtent())

		grow.lines = 3
		l.Refresh()
		h, ok := l.scroller.Height("grow")
		require.True(t, ok)
		assert.Equal(t, 3.0, h)
		assert.Equal(t, 3.0, l.ScrollExtent())
	})
}

func TestListLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()
		f := &itemFactory{item: &lineItem{id: "x", lines: 1}}
		l := virtualized(WithSize(10, 4))
		l.SetItems(append([]virtual.Item[Item]{{ID: "x", Factory: f}}, lineItems("item", 10, 1)...))

		l.RemoveItem("x")
		assert.Equal(t, 1, f.disposed)
		assert.Equal(t, 10, l.ItemCount())

		l.MoveDown(3)
		l.Clear()
		assert.Equal(t, virtual.ModeDirect, l.Mode())
		assert.Zero(t, l.ItemCount())
		assert.Zero(t, l.Offset())
		assert.Empty(t, l.units)
	})

	t.Run("update item", func(t *testing.T) {
		t.Parallel()
		old := &itemFactory{item: &lineItem{id: "x", lines: 1}}
		next := &itemFactory{item: &lineItem{id: "y", lines: 2}}
		l := New(WithSize(10, 4))
		l.AppendItem(virtual.Item[Item]{ID: "x", Factory: old})
		l.UpdateItem("x", next)

		assert.Equal(t, 1, old.disposed)
		assert.Equal(t, "y 1\ny 2\n\n", l.View())
	})

	t.Run("destroy", func(t *testing.T) {
		t.Parallel()
		l := virtualized(WithSize(10, 4))
		l.SetItems(lineItems("item", 20, 1))
		l.MoveDown(4)

		l.Destroy()
		assert.Empty(t, l.units)
		assert.Empty(t, l.listeners)
		assert.Empty(t, l.observers)
		assert.False(t, l.frames.Pending())
		assert.NotPanics(t, func() {
			l.Destroy()
			l.AppendItem(lineItems("more", 1, 1)[0])
		})
		assert.Equal(t, 20, l.ItemCount())
	})
}

func TestKeyMapHelp(t *testing.T) {
	t.Parallel()

	km := DefaultKeyMap()
	var bound int
	for _, col := range km.FullHelp() {
		for _, b := range col {
			assert.NotEmpty(t, b.Help().Desc)
			bound++
		}
	}
	assert.Equal(t, 8, bound)

	short := km.ShortHelp()
	require.Len(t, short, 3)
	assert.Equal(t, "scroll", short[0].Help().Desc)
	assert.Equal(t, "newest", short[2].Help().Desc)
}
