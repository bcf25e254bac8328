package styles

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/glamour/v2/ansi"
	"github.com/charmbracelet/lipgloss/v2"
)

type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase   color.Color
	BgSubtle color.Color

	FgBase      color.Color
	FgMuted     color.Color
	FgHalfMuted color.Color
	FgSubtle    color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base   lipgloss.Style
	Title  lipgloss.Style
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Message bubbles
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	SystemMessage    lipgloss.Style

	// Log lines
	LogTimestamp lipgloss.Style
	LogDebug     lipgloss.Style
	LogInfo      lipgloss.Style
	LogWarn      lipgloss.Style
	LogError     lipgloss.Style

	// Status bar
	Status     lipgloss.Style
	StatusMode lipgloss.Style
	Prompt     lipgloss.Style

	Help help.Styles

	Markdown ansi.StyleConfig
}

func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	bubble := lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true)

	return &Styles{
		Base:   base,
		Title:  base.Foreground(t.Accent).Bold(true),
		Text:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),

		Success: base.Foreground(t.Success),
		Error:   base.Foreground(t.Error),
		Warning: base.Foreground(t.Warning),
		Info:    base.Foreground(t.Info),

		UserMessage:      bubble.BorderForeground(t.Primary),
		AssistantMessage: bubble.BorderForeground(t.Secondary),
		SystemMessage:    bubble.BorderForeground(t.FgMuted).Foreground(t.FgMuted),

		LogTimestamp: base.Foreground(t.FgSubtle),
		LogDebug:     base.Foreground(t.FgMuted).Bold(true),
		LogInfo:      base.Foreground(t.Info).Bold(true),
		LogWarn:      base.Foreground(t.Warning).Bold(true),
		LogError:     base.Foreground(t.Error).Bold(true),

		Status:     base.Foreground(t.FgHalfMuted).Background(t.BgSubtle).Padding(0, 1),
		StatusMode: base.Foreground(t.BgBase).Background(t.Primary).Bold(true).Padding(0, 1),
		Prompt:     base.Foreground(t.Accent),

		Help: help.Styles{
			ShortKey:       base.Foreground(t.FgMuted),
			ShortDesc:      base.Foreground(t.FgSubtle),
			ShortSeparator: base.Foreground(t.Border),
			Ellipsis:       base.Foreground(t.Border),
			FullKey:        base.Foreground(t.FgMuted),
			FullDesc:       base.Foreground(t.FgSubtle),
			FullSeparator:  base.Foreground(t.Border),
		},

		Markdown: markdownConfig(t),
	}
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

type Manager struct {
	themes  map[string]*Theme
	current *Theme
}

func DefaultManager() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager("vscroll")
	})
	return defaultManager
}

func CurrentTheme() *Theme {
	return DefaultManager().Current()
}

func NewManager(defaultTheme string) *Manager {
	m := &Manager{
		themes: make(map[string]*Theme),
	}
	m.Register(NewVscrollTheme())
	m.current = m.themes[defaultTheme]
	return m
}

func (m *Manager) Register(theme *Theme) {
	m.themes[theme.Name] = theme
}

func (m *Manager) Current() *Theme {
	return m.current
}

func (m *Manager) SetTheme(name string) error {
	if theme, ok := m.themes[name]; ok {
		m.current = theme
		return nil
	}
	return fmt.Errorf("theme %s not found", name)
}

func colorToString(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
