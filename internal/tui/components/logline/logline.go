// Package logline renders lines of a followed file as list units. Lines
// written by slog's JSON handler are recognised and shown by level.
package logline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vscroll/internal/tui/exp/list"
	"github.com/charmbracelet/vscroll/internal/tui/styles"
	"github.com/charmbracelet/vscroll/internal/virtual"
	"github.com/charmbracelet/x/ansi"
	"github.com/tidwall/gjson"
)

type Level string

const (
	LevelNone  Level = ""
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Line is one line of a followed file.
type Line struct {
	N     int
	Text  string
	Level Level
	Time  time.Time
}

// Parse builds a Line from raw text. Structured JSON lines contribute
// their message, level and time; anything else is kept verbatim and the
// level is guessed from the first matching keyword.
func Parse(n int, raw string) Line {
	line := Line{N: n, Text: raw, Level: guessLevel(raw)}
	if !gjson.Valid(raw) {
		return line
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return line
	}
	if msg := res.Get("msg"); msg.Exists() {
		line.Text = msg.String()
		res.ForEach(func(key, value gjson.Result) bool {
			switch key.String() {
			case "msg", "level", "time", "source":
			default:
				line.Text += fmt.Sprintf(" %s=%s", key.String(), value.String())
			}
			return true
		})
	}
	if lvl := res.Get("level"); lvl.Exists() {
		line.Level = normalize(lvl.String())
	}
	if ts := res.Get("time"); ts.Exists() {
		if t, err := time.Parse(time.RFC3339Nano, ts.String()); err == nil {
			line.Time = t
		}
	}
	return line
}

func guessLevel(raw string) Level {
	upper := strings.ToUpper(raw)
	for _, lvl := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if strings.Contains(upper, string(lvl)) {
			return lvl
		}
	}
	return LevelNone
}

func normalize(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelNone
	}
}

// ID returns a stable list id for the line.
func (l Line) ID() string {
	return fmt.Sprintf("line-%d", l.N)
}

// Item returns the list item for line.
func Item(line Line) virtual.Item[list.Item] {
	return virtual.Item[list.Item]{
		ID:      line.ID(),
		Factory: virtual.FactoryFunc[list.Item](func() list.Item { return &lineCmp{line: line} }),
	}
}

type lineCmp struct {
	line  Line
	width int
}

var _ list.Sizeable = (*lineCmp)(nil)

func (c *lineCmp) SetWidth(width int) {
	c.width = width
}

func (c *lineCmp) View() string {
	s := styles.CurrentTheme().S()
	gutter := s.Subtle.Render(fmt.Sprintf("%5d ", c.line.N))
	prefix := gutter
	if !c.line.Time.IsZero() {
		prefix += s.LogTimestamp.Render(c.line.Time.Format(time.TimeOnly)) + " "
	}
	if badge := c.badge(s); badge != "" {
		prefix += badge + " "
	}

	width := c.width - lipgloss.Width(prefix)
	text := c.line.Text
	if width > 0 {
		text = ansi.Wrap(text, width, " ")
	}
	indent := strings.Repeat(" ", lipgloss.Width(prefix))
	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
			continue
		}
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (c *lineCmp) badge(s *styles.Styles) string {
	switch c.line.Level {
	case LevelDebug:
		return s.LogDebug.Render("DBG")
	case LevelInfo:
		return s.LogInfo.Render("INF")
	case LevelWarn:
		return s.LogWarn.Render("WRN")
	case LevelError:
		return s.LogError.Render("ERR")
	default:
		return ""
	}
}
