package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/vscroll/internal/virtual"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	appName              = "vscroll"
	defaultDataDirectory = ".vscroll"

	defaultThreshold       = 50
	defaultOverscan        = 5
	defaultEstimatedHeight = 3
	defaultBottomTolerance = 1
	defaultFPS             = 60
	defaultGap             = 1
)

type ScrollerOptions struct {
	// Item count at which the list switches to virtualized rendering.
	Threshold int `json:"threshold,omitempty" jsonschema:"description=Item count that activates virtualized rendering,minimum=1,default=50"`
	// Extra items rendered above and below the visible range.
	Overscan int `json:"overscan,omitempty" jsonschema:"description=Items rendered beyond each edge of the viewport,minimum=0,default=5"`
	// Height, in lines, assumed for items that were never rendered.
	EstimatedHeight float64 `json:"estimated_height,omitempty" jsonschema:"description=Height in lines assumed for unmeasured items,default=3"`
	BottomTolerance float64 `json:"bottom_tolerance,omitempty" jsonschema:"description=Distance from the end still treated as the bottom,minimum=0,default=1"`
}

type TUIOptions struct {
	FPS           int  `json:"fps,omitempty" jsonschema:"description=Maximum frames per second for scroll updates,minimum=1,default=60"`
	Gap           *int `json:"gap,omitempty" jsonschema:"description=Blank lines between items,minimum=0,default=1"`
	Markdown      bool `json:"markdown,omitempty" jsonschema:"description=Render message bodies as markdown"`
	StickToBottom bool `json:"stick_to_bottom,omitempty" jsonschema:"description=Keep following new items while at the bottom"`
}

type Options struct {
	Scroller      *ScrollerOptions `json:"scroller,omitempty"`
	TUI           *TUIOptions      `json:"tui,omitempty"`
	Debug         bool             `json:"debug,omitempty"`
	DataDirectory string           `json:"data_directory,omitempty"` // Relative to the cwd
}

// Config holds the configuration for vscroll.
type Config struct {
	Options *Options `json:"options,omitempty"`

	// Internal
	workingDir    string `json:"-"`
	dataConfigDir string `json:"-"`
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// EngineOptions converts the configured scroller settings into engine
// options.
func (c *Config) EngineOptions() []virtual.Option {
	s := c.Options.Scroller
	return []virtual.Option{
		virtual.WithThreshold(s.Threshold),
		virtual.WithOverscan(s.Overscan),
		virtual.WithEstimatedHeight(s.EstimatedHeight),
		virtual.WithBottomTolerance(s.BottomTolerance),
	}
}

func (c *Config) Validate() error {
	if c.Options == nil || c.Options.Scroller == nil || c.Options.TUI == nil {
		return fmt.Errorf("config defaults not applied")
	}
	s := c.Options.Scroller
	if s.Threshold < 1 {
		return fmt.Errorf("invalid scroller threshold %d: must be at least 1", s.Threshold)
	}
	if s.Overscan < 0 {
		return fmt.Errorf("invalid scroller overscan %d: must not be negative", s.Overscan)
	}
	if s.EstimatedHeight <= 0 {
		return fmt.Errorf("invalid estimated height %v: must be positive", s.EstimatedHeight)
	}
	if s.BottomTolerance < 0 {
		return fmt.Errorf("invalid bottom tolerance %v: must not be negative", s.BottomTolerance)
	}
	if c.Options.TUI.FPS < 1 {
		return fmt.Errorf("invalid fps %d: must be at least 1", c.Options.TUI.FPS)
	}
	if gap := c.Options.TUI.Gap; gap != nil && *gap < 0 {
		return fmt.Errorf("invalid gap %d: must not be negative", *gap)
	}
	return nil
}

func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigField returns the raw JSON stored at key in the data config
// file, and whether it was present.
func (c *Config) GetConfigField(key string) (string, bool, error) {
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read config file: %w", err)
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return "", false, nil
	}
	return res.Raw, true, nil
}
