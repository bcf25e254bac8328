package list

import (
	"math"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vscroll/internal/virtual"
	"github.com/charmbracelet/x/ansi"
)

// Item is a mounted unit. Items are used as map keys, so implementations
// must be comparable; pointers are the usual choice.
type Item interface {
	View() string
}

// Sizeable items receive the list width when they are mounted and whenever
// it changes.
type Sizeable interface {
	SetWidth(width int)
}

const (
	DefaultFPS                = 60
	ViewportDefaultScrollSize = 2
)

// FrameMsg runs the pending scroller frame of a list.
type FrameMsg struct {
	id uint64
}

var lastID atomic.Uint64

type confOptions struct {
	width, height int
	// blank lines after every item
	gap         int
	fps         int
	keyMap      KeyMap
	enableMouse bool
	options     []virtual.Option
}

// List is a terminal host for a virtual.Scroller. It lays mounted items out
// top to bottom between two blank spacers and shows a window of height
// lines starting at the scroll offset.
type List struct {
	*confOptions
	id uint64

	offset      int
	top, bottom int
	units       []Item

	observers    map[Item]func(float64)
	heights      map[Item]int
	listeners    map[int]func()
	nextListener int

	frames  virtual.FrameQueue
	ticking bool

	scroller *virtual.Scroller[Item]
	rendered string
}

var (
	_ tea.Model                  = (*List)(nil)
	_ tea.ViewModel              = (*List)(nil)
	_ virtual.Container[Item]    = (*List)(nil)
	_ virtual.SizeObserver[Item] = (*List)(nil)
	_ virtual.Signaler           = (*List)(nil)
)

type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

// WithGap sets the gap between items in the list.
func WithGap(gap int) ListOption {
	return func(l *confOptions) {
		l.gap = max(gap, 0)
	}
}

// WithFPS sets how often pending scroll work is flushed.
func WithFPS(fps int) ListOption {
	return func(l *confOptions) {
		if fps > 0 {
			l.fps = fps
		}
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// WithScrollerOptions configures the underlying virtual.Scroller.
func WithScrollerOptions(opts ...virtual.Option) ListOption {
	return func(l *confOptions) {
		l.options = append(l.options, opts...)
	}
}

func New(opts ...ListOption) *List {
	l := &List{
		confOptions: &confOptions{
			fps:    DefaultFPS,
			keyMap: DefaultKeyMap(),
		},
		id:        lastID.Add(1),
		observers: make(map[Item]func(float64)),
		heights:   make(map[Item]int),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}
	scrollerOpts := append([]virtual.Option{virtual.WithScheduler(&l.frames)}, l.options...)
	l.scroller = virtual.New[Item](l, scrollerOpts...)
	return l
}

// Init implements tea.Model.
func (l *List) Init() tea.Cmd {
	l.render()
	return nil
}

// Update implements tea.Model.
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		if msg.id != l.id {
			return l, nil
		}
		l.ticking = false
		return l, l.Flush()
	case tea.MouseWheelMsg:
		if l.enableMouse {
			return l.handleMouseWheel(msg)
		}
		return l, nil
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, l.keyMap.LineDown):
			return l, l.MoveDown(1)
		case key.Matches(msg, l.keyMap.LineUp):
			return l, l.MoveUp(1)
		case key.Matches(msg, l.keyMap.HalfPageDown):
			return l, l.MoveDown(l.height / 2)
		case key.Matches(msg, l.keyMap.HalfPageUp):
			return l, l.MoveUp(l.height / 2)
		case key.Matches(msg, l.keyMap.PageDown):
			return l, l.MoveDown(l.height)
		case key.Matches(msg, l.keyMap.PageUp):
			return l, l.MoveUp(l.height)
		case key.Matches(msg, l.keyMap.Bottom):
			return l, l.GoToBottom()
		case key.Matches(msg, l.keyMap.Top):
			return l, l.GoToTop()
		}
	}
	return l, nil
}

func (l *List) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseWheelDown:
		cmd = l.MoveDown(ViewportDefaultScrollSize)
	case tea.MouseWheelUp:
		cmd = l.MoveUp(ViewportDefaultScrollSize)
	}
	return l, cmd
}

// View implements tea.ViewModel.
func (l *List) View() string {
	return l.rendered
}

// Flush runs the pending scroller frame right away, re-measures mounted
// items and re-renders.
func (l *List) Flush() tea.Cmd {
	l.frames.Flush()
	l.measure()
	return l.changed()
}

// Refresh re-measures mounted items. Producers call it after changing the
// content of a unit in place.
func (l *List) Refresh() tea.Cmd {
	l.measure()
	return l.changed()
}

func (l *List) SetItems(items []virtual.Item[Item]) tea.Cmd {
	l.scroller.SetItems(items)
	return l.changed()
}

func (l *List) AppendItem(item virtual.Item[Item]) tea.Cmd {
	l.scroller.AppendItem(item)
	return l.changed()
}

func (l *List) UpdateItem(id string, factory virtual.Factory[Item]) tea.Cmd {
	l.scroller.UpdateItem(id, factory)
	return l.changed()
}

func (l *List) RemoveItem(id string) tea.Cmd {
	l.scroller.RemoveItem(id)
	return l.changed()
}

func (l *List) Clear() tea.Cmd {
	l.scroller.Clear()
	l.offset = 0
	return l.changed()
}

// Destroy releases every mounted item. The list renders empty afterwards.
func (l *List) Destroy() {
	l.scroller.Destroy()
	l.frames.Cancel()
	l.render()
}

func (l *List) ScrollToItem(id string) tea.Cmd {
	l.scroller.ScrollToItem(id)
	return l.changed()
}

func (l *List) IsAtBottom() bool {
	return l.scroller.IsAtBottom()
}

func (l *List) ItemCount() int {
	return l.scroller.ItemCount()
}

// Mode returns the operating mode of the underlying scroller.
func (l *List) Mode() virtual.Mode {
	return l.scroller.Mode()
}

// Window returns the mounted index range.
func (l *List) Window() virtual.Range {
	return l.scroller.Window()
}

// Offset returns the first visible line.
func (l *List) Offset() int {
	return l.offset
}

// GoToBottom jumps to the end of the content.
func (l *List) GoToBottom() tea.Cmd {
	l.scroller.ScrollToBottom(false)
	return l.changed()
}

func (l *List) GoToTop() tea.Cmd {
	l.scrollTo(0)
	return l.changed()
}

func (l *List) MoveDown(n int) tea.Cmd {
	l.scrollTo(l.offset + n)
	return l.changed()
}

func (l *List) MoveUp(n int) tea.Cmd {
	l.scrollTo(l.offset - n)
	return l.changed()
}

func (l *List) GetSize() (int, int) {
	return l.width, l.height
}

// SetSize resizes the list. A width change is passed on to Sizeable items
// and the new heights are reported to the scroller.
func (l *List) SetSize(width, height int) tea.Cmd {
	oldWidth, oldHeight := l.width, l.height
	l.width, l.height = width, height
	if oldWidth != width {
		for _, u := range l.units {
			l.size(u)
		}
		l.measure()
	}
	if oldWidth != width || oldHeight != height {
		l.clampOffset()
		l.emit()
	}
	return l.changed()
}

// ScrollOffset implements virtual.Viewport.
func (l *List) ScrollOffset() float64 {
	return float64(l.offset)
}

// ScrollExtent implements virtual.Viewport.
func (l *List) ScrollExtent() float64 {
	return float64(l.extent())
}

// ViewportSize implements virtual.Viewport.
func (l *List) ViewportSize() float64 {
	return float64(max(l.height, 0))
}

// ScrollTo implements virtual.Viewport.
func (l *List) ScrollTo(offset float64) {
	l.scrollTo(int(math.Round(offset)))
}

// Append implements virtual.Surface.
func (l *List) Append(unit Item) {
	l.size(unit)
	l.units = append(l.units, unit)
}

// InsertBefore implements virtual.Surface.
func (l *List) InsertBefore(unit, next Item) {
	i := slices.Index(l.units, next)
	if i < 0 {
		l.Append(unit)
		return
	}
	l.size(unit)
	l.units = slices.Insert(l.units, i, unit)
}

// Remove implements virtual.Surface.
func (l *List) Remove(unit Item) {
	if i := slices.Index(l.units, unit); i >= 0 {
		l.units = slices.Delete(l.units, i, i+1)
	}
}

// Measure implements virtual.Surface.
func (l *List) Measure(unit Item) float64 {
	return float64(l.lines(unit))
}

// SetSpacers implements virtual.Surface.
func (l *List) SetSpacers(top, bottom float64) {
	l.top = int(math.Round(top))
	l.bottom = int(math.Round(bottom))
}

// Observe implements virtual.SizeObserver.
func (l *List) Observe(unit Item, onResize func(float64)) {
	h := l.lines(unit)
	l.observers[unit] = onResize
	l.heights[unit] = h
	onResize(float64(h))
}

// Unobserve implements virtual.SizeObserver.
func (l *List) Unobserve(unit Item) {
	delete(l.observers, unit)
	delete(l.heights, unit)
}

// Disconnect implements virtual.SizeObserver.
func (l *List) Disconnect() {
	clear(l.observers)
	clear(l.heights)
}

// Notify implements virtual.Signaler.
func (l *List) Notify(fn func()) func() {
	id := l.nextListener
	l.nextListener++
	l.listeners[id] = fn
	return func() {
		delete(l.listeners, id)
	}
}

func (l *List) emit() {
	for _, fn := range l.listeners {
		fn()
	}
}

func (l *List) size(unit Item) {
	if s, ok := unit.(Sizeable); ok && l.width > 0 {
		s.SetWidth(l.width)
	}
}

// lines is the height of unit including the trailing gap.
func (l *List) lines(unit Item) int {
	return lipgloss.Height(unit.View()) + l.gap
}

func (l *List) extent() int {
	n := l.top + l.bottom
	for _, u := range l.units {
		n += l.lines(u)
	}
	return n
}

func (l *List) maxOffset() int {
	return max(0, l.extent()-l.height)
}

func (l *List) scrollTo(offset int) {
	offset = min(max(offset, 0), l.maxOffset())
	if offset == l.offset {
		return
	}
	l.offset = offset
	l.emit()
}

func (l *List) clampOffset() {
	l.offset = min(max(l.offset, 0), l.maxOffset())
}

// measure reports every observed unit whose height changed.
func (l *List) measure() {
	for _, u := range slices.Clone(l.units) {
		fn, ok := l.observers[u]
		if !ok {
			continue
		}
		h := l.lines(u)
		if h == l.heights[u] {
			continue
		}
		l.heights[u] = h
		fn(float64(h))
	}
}

func (l *List) changed() tea.Cmd {
	l.clampOffset()
	l.render()
	return l.frameCmd()
}

func (l *List) frameCmd() tea.Cmd {
	if !l.frames.Pending() || l.ticking {
		return nil
	}
	l.ticking = true
	id := l.id
	return tea.Tick(time.Second/time.Duration(l.fps), func(time.Time) tea.Msg {
		return FrameMsg{id: id}
	})
}

// render paints the visible window. Spacer lines are blank; every line is
// cut to the list width and the result is always height lines tall.
func (l *List) render() {
	if l.height <= 0 || l.width <= 0 {
		l.rendered = ""
		return
	}
	start, end := l.offset, l.offset+l.height
	out := make([]string, 0, l.height)
	pos := 0

	blank := func(n int) {
		from, to := max(pos, start), min(pos+n, end)
		for range max(0, to-from) {
			out = append(out, "")
		}
		pos += n
	}

	blank(l.top)
	for _, u := range l.units {
		if pos >= end {
			break
		}
		view := u.View()
		h := lipgloss.Height(view)
		if pos+h+l.gap <= start {
			pos += h + l.gap
			continue
		}
		for i, line := range strings.Split(view, "\n") {
			if p := pos + i; p >= start && p < end {
				out = append(out, ansi.Truncate(line, l.width, ""))
			}
		}
		pos += h
		blank(l.gap)
	}
	for len(out) < l.height {
		out = append(out, "")
	}
	l.rendered = strings.Join(out, "\n")
}
