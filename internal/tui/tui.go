// Package tui is the interactive front end: a virtual list of messages or
// log lines with a status bar.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vscroll/internal/tui/components/heartbit"
	"github.com/charmbracelet/vscroll/internal/tui/components/message"
	"github.com/charmbracelet/vscroll/internal/tui/exp/list"
	"github.com/charmbracelet/vscroll/internal/tui/styles"
	"github.com/charmbracelet/vscroll/internal/virtual"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
)

const streamInterval = 40 * time.Millisecond

// Entry is one row of the list together with the text used to find it.
type Entry struct {
	ID   string
	Text string
	Item virtual.Item[list.Item]
}

// EntryMsg appends an entry to the list.
type EntryMsg Entry

type sourceClosedMsg struct{}

type streamTickMsg struct {
	id string
}

type Options struct {
	Title         string
	StickToBottom bool
	Markdown      bool
	Gap           int
	FPS           int
	Scroller      []virtual.Option

	Entries []Entry
	// Source delivers entries produced while the program runs.
	Source <-chan Entry
	// Generator enables streaming made-up assistant replies.
	Generator *message.Generator
}

type stream struct {
	msg    *message.Message
	chunks []string
}

// appModel holds the list and everything drawn around it.
type appModel struct {
	width, height int
	keyMap        KeyMap
	help          help.Model
	opts          Options

	list    *list.List
	entries []Entry
	follow  bool
	empty   *heartbit.Heartbit

	searching bool
	query     string
	matches   fuzzy.Matches
	match     int

	stream *stream
}

// New creates the application model.
func New(opts Options) tea.Model {
	return newModel(opts)
}

func newModel(opts Options) *appModel {
	t := styles.CurrentTheme()
	h := help.New()
	h.Styles = t.S().Help

	keyMap := DefaultKeyMap()
	listOpts := []list.ListOption{
		list.WithKeyMap(keyMap.List),
		list.WithGap(opts.Gap),
		list.WithEnableMouse(),
		list.WithScrollerOptions(opts.Scroller...),
	}
	if opts.FPS > 0 {
		listOpts = append(listOpts, list.WithFPS(opts.FPS))
	}

	a := &appModel{
		keyMap: keyMap,
		help:   h,
		opts:   opts,
		list:   list.New(listOpts...),
		follow: opts.StickToBottom,
		empty:  heartbit.Standard("Nothing to show yet"),
	}
	if len(opts.Entries) > 0 {
		a.entries = append(a.entries, opts.Entries...)
		items := make([]virtual.Item[list.Item], 0, len(opts.Entries))
		for _, e := range opts.Entries {
			items = append(items, e.Item)
		}
		a.list.SetItems(items)
	}
	return a
}

func (a *appModel) Init() tea.Cmd {
	return tea.Batch(a.list.Init(), a.waitForEntry())
}

func (a *appModel) waitForEntry() tea.Cmd {
	if a.opts.Source == nil {
		return nil
	}
	source := a.opts.Source
	return func() tea.Msg {
		e, ok := <-source
		if !ok {
			return sourceClosedMsg{}
		}
		return EntryMsg(e)
	}
}

func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		// Make space for the status bar.
		return a, a.list.SetSize(msg.Width, max(0, msg.Height-1))
	case EntryMsg:
		return a, tea.Batch(a.appendEntry(Entry(msg)), a.waitForEntry())
	case sourceClosedMsg:
		slog.Debug("Entry source closed", "entries", len(a.entries))
		return a, nil
	case streamTickMsg:
		return a, a.streamTick(msg)
	case list.FrameMsg, tea.MouseWheelMsg:
		_, cmd := a.list.Update(msg)
		return a, cmd
	case tea.KeyPressMsg:
		return a, a.handleKeyPressMsg(msg)
	}
	return a, nil
}

// appendEntry adds e, following it when the list was already at the
// bottom.
func (a *appModel) appendEntry(e Entry) tea.Cmd {
	atBottom := a.list.IsAtBottom()
	a.entries = append(a.entries, e)
	cmd := a.list.AppendItem(e.Item)
	if a.follow && atBottom {
		return a.list.GoToBottom()
	}
	return cmd
}

func (a *appModel) handleKeyPressMsg(msg tea.KeyPressMsg) tea.Cmd {
	if a.searching {
		return a.handleSearchKey(msg)
	}
	switch {
	case key.Matches(msg, a.keyMap.Quit):
		a.list.Destroy()
		return tea.Quit
	case key.Matches(msg, a.keyMap.Search):
		a.searching = true
		a.query = ""
		a.matches = nil
		return nil
	case key.Matches(msg, a.keyMap.Stream):
		return a.startStream()
	case key.Matches(msg, a.keyMap.Remove):
		return a.removeNewest()
	case key.Matches(msg, a.keyMap.Clear):
		a.entries = nil
		a.stream = nil
		return a.list.Clear()
	case key.Matches(msg, a.keyMap.Follow):
		a.follow = !a.follow
		if a.follow {
			return a.list.GoToBottom()
		}
		return nil
	case key.Matches(msg, a.keyMap.Bottom):
		a.follow = a.opts.StickToBottom
		return a.list.GoToBottom()
	}
	_, cmd := a.list.Update(msg)
	return cmd
}

func (a *appModel) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keyMap.Cancel), key.Matches(msg, a.keyMap.Accept):
		a.searching = false
		return nil
	case key.Matches(msg, a.keyMap.NextMatch):
		if len(a.matches) == 0 {
			return nil
		}
		a.match = (a.match + 1) % len(a.matches)
		return a.jumpToMatch()
	case msg.String() == "backspace":
		if a.query == "" {
			return nil
		}
		runes := []rune(a.query)
		a.query = string(runes[:len(runes)-1])
	case msg.Text != "":
		a.query += msg.Text
	default:
		return nil
	}
	return a.search()
}

// search ranks entries against the query and jumps to the best match.
func (a *appModel) search() tea.Cmd {
	a.matches = nil
	a.match = 0
	if a.query == "" {
		return nil
	}
	texts := make([]string, len(a.entries))
	for i, e := range a.entries {
		texts[i] = e.Text
	}
	a.matches = fuzzy.Find(a.query, texts)
	return a.jumpToMatch()
}

func (a *appModel) jumpToMatch() tea.Cmd {
	if a.match >= len(a.matches) {
		return nil
	}
	a.follow = false
	return a.list.ScrollToItem(a.entries[a.matches[a.match].Index].ID)
}

func (a *appModel) startStream() tea.Cmd {
	if a.opts.Generator == nil || a.stream != nil {
		return nil
	}
	msg := message.New(message.Assistant, "Assistant", "")
	a.stream = &stream{msg: msg, chunks: a.opts.Generator.Chunks()}
	return tea.Batch(
		a.appendEntry(Entry{ID: msg.ID, Item: message.Item(msg, a.opts.Markdown)}),
		a.nextStreamTick(),
	)
}

func (a *appModel) nextStreamTick() tea.Cmd {
	id := a.stream.msg.ID
	return tea.Tick(streamInterval, func(time.Time) tea.Msg {
		return streamTickMsg{id: id}
	})
}

// streamTick grows the streaming message by one chunk and re-measures it.
func (a *appModel) streamTick(msg streamTickMsg) tea.Cmd {
	if a.stream == nil || a.stream.msg.ID != msg.id {
		return nil
	}
	if len(a.stream.chunks) == 0 {
		a.setEntryText(msg.id, a.stream.msg.Body)
		a.stream = nil
		return nil
	}
	atBottom := a.list.IsAtBottom()
	a.stream.msg.Append(a.stream.chunks[0])
	a.stream.chunks = a.stream.chunks[1:]

	cmds := []tea.Cmd{a.list.Refresh(), a.nextStreamTick()}
	if a.follow && atBottom {
		cmds = append(cmds, a.list.GoToBottom())
	}
	return tea.Batch(cmds...)
}

func (a *appModel) setEntryText(id, text string) {
	for i := range a.entries {
		if a.entries[i].ID == id {
			a.entries[i].Text = text
			return
		}
	}
}

func (a *appModel) removeNewest() tea.Cmd {
	if len(a.entries) == 0 {
		return nil
	}
	last := a.entries[len(a.entries)-1]
	a.entries = a.entries[:len(a.entries)-1]
	if a.stream != nil && a.stream.msg.ID == last.ID {
		a.stream = nil
	}
	return a.list.RemoveItem(last.ID)
}

func (a *appModel) View() tea.View {
	return tea.NewView(a.render())
}

// render stacks the list, or the placeholder when it is empty, above the
// status bar.
func (a *appModel) render() string {
	body := a.list.View()
	if a.list.ItemCount() == 0 {
		body = a.empty.Render(a.width, max(0, a.height-1))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusView())
}

func (a *appModel) statusView() string {
	t := styles.CurrentTheme()
	s := t.S()

	mode := s.StatusMode.Render(a.list.Mode().String())
	if a.searching {
		prompt := s.Prompt.Render("/") + a.query
		info := s.Status.Render(fmt.Sprintf("%s  %d matches", prompt, len(a.matches)))
		keys := a.help.View(searchKeyMap{a.keyMap})
		return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, mode, info, " ", keys), a.width, "…")
	}

	follow := "off"
	if a.follow {
		follow = "on"
	}
	w := a.list.Window()
	parts := fmt.Sprintf("%d items  window %d-%d  offset %d  follow %s", a.list.ItemCount(), w.Start, w.End, a.list.Offset(), follow)
	if a.opts.Title != "" {
		parts = a.opts.Title + "  " + parts
	}
	info := s.Status.Render(parts)
	keys := a.help.View(a.keyMap)
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, mode, info, " ", keys), a.width, "…")
}
