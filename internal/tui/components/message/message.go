// Package message renders chat messages as list units.
package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vscroll/internal/tui/exp/list"
	"github.com/charmbracelet/vscroll/internal/tui/styles"
	"github.com/charmbracelet/vscroll/internal/virtual"
	"github.com/google/uuid"
)

type Role int

const (
	User Role = iota
	Assistant
	System
)

func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Assistant:
		return "assistant"
	default:
		return "system"
	}
}

// Message is the data behind a chat entry. Body may grow while a reply is
// streaming; mounted units pick the change up on their next render.
type Message struct {
	ID        string
	Role      Role
	Author    string
	Body      string
	CreatedAt time.Time
}

func New(role Role, author, body string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now(),
	}
}

// Append adds a streamed chunk to the body.
func (m *Message) Append(chunk string) {
	m.Body += chunk
}

// Item returns the list item for msg.
func Item(msg *Message, markdown bool) virtual.Item[list.Item] {
	return virtual.Item[list.Item]{
		ID:      msg.ID,
		Factory: &factory{msg: msg, markdown: markdown},
	}
}

type factory struct {
	msg      *Message
	markdown bool
}

func (f *factory) Create() list.Item {
	return &messageCmp{message: f.msg, markdown: f.markdown}
}

func (f *factory) Dispose(unit list.Item) {
	if m, ok := unit.(*messageCmp); ok {
		m.rendered = ""
	}
}

// messageCmp is the mounted rendering of a Message.
type messageCmp struct {
	message  *Message
	markdown bool
	width    int

	// rendered is valid for renderedWidth and renderedBody
	rendered      string
	renderedWidth int
	renderedBody  string
}

var _ list.Sizeable = (*messageCmp)(nil)

func (m *messageCmp) SetWidth(width int) {
	m.width = width
}

func (m *messageCmp) View() string {
	if m.rendered != "" && m.renderedWidth == m.width && m.renderedBody == m.message.Body {
		return m.rendered
	}
	m.rendered = m.render()
	m.renderedWidth = m.width
	m.renderedBody = m.message.Body
	return m.rendered
}

func (m *messageCmp) render() string {
	t := styles.CurrentTheme()
	header := t.S().Title.Render(m.message.Author) + " " +
		t.S().Subtle.Render(m.message.CreatedAt.Format(time.Kitchen))
	parts := []string{header, m.content()}
	return m.style().Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *messageCmp) content() string {
	body := m.message.Body
	if body == "" {
		return styles.CurrentTheme().S().Muted.Render("…")
	}
	width := m.textWidth()
	if !m.markdown || width <= 0 {
		if width <= 0 {
			return body
		}
		return lipgloss.NewStyle().Width(width).Render(body)
	}
	return m.toMarkdown(body)
}

// textWidth takes the border and padding into account.
func (m *messageCmp) textWidth() int {
	return m.width - 2
}

func (m *messageCmp) toMarkdown(content string) string {
	r := styles.MarkdownRenderer(m.textWidth())
	rendered, err := r.Render(content)
	if err != nil {
		return fmt.Sprintf("%s\n%s", content, styles.CurrentTheme().S().Error.Render(err.Error()))
	}
	return strings.Trim(rendered, "\n")
}

func (m *messageCmp) style() lipgloss.Style {
	s := styles.CurrentTheme().S()
	switch m.message.Role {
	case User:
		return s.UserMessage
	case Assistant:
		return s.AssistantMessage
	default:
		return s.SystemMessage
	}
}
