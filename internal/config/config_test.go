package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	exitVal := m.Run()
	os.Exit(exitVal)
}

func TestConfig_LoadFromReaders(t *testing.T) {
	data1 := strings.NewReader(`{"options": {"scroller": {"threshold": 10, "overscan": 2}}}`)
	data2 := strings.NewReader(`{"options": {"scroller": {"threshold": 20}, "tui": {"fps": 30}}}`)
	data3 := strings.NewReader(`{"options": {"debug": true}}`)

	cfg, err := loadFromReaders([]io.Reader{data1, data2, data3})
	require.NoError(t, err)
	require.NotNil(t, cfg.Options)
	require.NotNil(t, cfg.Options.Scroller)
	assert.Equal(t, 20, cfg.Options.Scroller.Threshold)
	assert.Equal(t, 2, cfg.Options.Scroller.Overscan)
	assert.Equal(t, 30, cfg.Options.TUI.FPS)
	assert.True(t, cfg.Options.Debug)
}

func TestConfig_LoadFromNoReaders(t *testing.T) {
	cfg, err := loadFromReaders(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Options)
}

func TestConfig_setDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults("/tmp")

	require.NotNil(t, cfg.Options)
	require.NotNil(t, cfg.Options.Scroller)
	require.NotNil(t, cfg.Options.TUI)
	require.NotNil(t, cfg.Options.TUI.Gap)
	assert.Equal(t, filepath.Join("/tmp", ".vscroll"), cfg.Options.DataDirectory)
	assert.Equal(t, "/tmp", cfg.WorkingDir())
	assert.Equal(t, defaultThreshold, cfg.Options.Scroller.Threshold)
	assert.Equal(t, defaultOverscan, cfg.Options.Scroller.Overscan)
	assert.Equal(t, float64(defaultEstimatedHeight), cfg.Options.Scroller.EstimatedHeight)
	assert.Equal(t, float64(defaultBottomTolerance), cfg.Options.Scroller.BottomTolerance)
	assert.Equal(t, defaultFPS, cfg.Options.TUI.FPS)
	assert.Equal(t, defaultGap, *cfg.Options.TUI.Gap)
	assert.True(t, cfg.Options.TUI.StickToBottom)
	assert.Len(t, cfg.EngineOptions(), 4)
	require.NoError(t, cfg.Validate())
}

func TestConfig_setDefaultsKeepsValues(t *testing.T) {
	gap := 0
	cfg := &Config{Options: &Options{
		Scroller: &ScrollerOptions{Threshold: 7},
		TUI:      &TUIOptions{Gap: &gap},
	}}
	cfg.setDefaults("/tmp")

	assert.Equal(t, 7, cfg.Options.Scroller.Threshold)
	assert.Zero(t, *cfg.Options.TUI.Gap)
	assert.False(t, cfg.Options.TUI.StickToBottom)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"threshold", func(c *Config) { c.Options.Scroller.Threshold = -1 }, "threshold"},
		{"overscan", func(c *Config) { c.Options.Scroller.Overscan = -2 }, "overscan"},
		{"estimated height", func(c *Config) { c.Options.Scroller.EstimatedHeight = -3 }, "estimated height"},
		{"bottom tolerance", func(c *Config) { c.Options.Scroller.BottomTolerance = -1 }, "bottom tolerance"},
		{"fps", func(c *Config) { c.Options.TUI.FPS = -5 }, "fps"},
		{"gap", func(c *Config) { g := -1; c.Options.TUI.Gap = &g }, "gap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.setDefaults(t.TempDir())
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	require.Error(t, (&Config{}).Validate())
}

func TestConfig_Load(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))

	global := GlobalConfig()
	require.Equal(t, filepath.Join(home, "config", "vscroll", "vscroll.json"), global)
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
	require.NoError(t, os.WriteFile(global, []byte(`{"options":{"scroller":{"threshold":100,"overscan":3}}}`), 0o644))

	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, ".vscroll.json"), []byte(`{"options":{"scroller":{"threshold":25}}}`), 0o644))

	cfg, err := Load(cwd, true)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Options.Scroller.Threshold)
	assert.Equal(t, 3, cfg.Options.Scroller.Overscan)
	assert.True(t, cfg.Options.Debug)

	t.Run("invalid values are rejected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(cwd, "vscroll.json"), []byte(`{"options":{"tui":{"fps":-1}}}`), 0o644))
		_, err := Load(cwd, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fps")
	})
}

func TestConfig_ConfigFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", home)

	cfg := &Config{dataConfigDir: GlobalConfigData()}
	_, ok, err := cfg.GetConfigField("options.tui.fps")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cfg.SetConfigField("options.tui.fps", 30))
	require.NoError(t, cfg.SetConfigField("options.scroller.estimated_height", 2.5))

	raw, ok, err := cfg.GetConfigField("options.tui.fps")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "30", raw)

	data, err := os.ReadFile(filepath.Join(home, "vscroll", "vscroll.json"))
	require.NoError(t, err)
	loaded, err := LoadReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.Options.TUI.FPS)
	assert.Equal(t, 2.5, loaded.Options.Scroller.EstimatedHeight)
}

func TestMerge(t *testing.T) {
	data1 := strings.NewReader(`{"foo": "bar"}`)
	data2 := strings.NewReader(`{"baz": "qux"}`)

	merged, err := Merge([]io.Reader{data1, data2})
	require.NoError(t, err)

	got, err := io.ReadAll(merged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"baz":"qux","foo":"bar"}`, string(got))
}
