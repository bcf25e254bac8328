package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/vscroll/internal/follow"
	"github.com/charmbracelet/vscroll/internal/tui"
	"github.com/charmbracelet/vscroll/internal/virtual/headless"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() SimulationReport {
	return SimulationReport{
		Simulation: headless.Simulation{Items: 2, Viewport: 10, MinHeight: 5, MaxHeight: 5, Step: 5},
		Snapshots: []headless.Snapshot{
			{Step: 0, Action: "set items", Mode: "direct", Extent: 10, End: 2, Mounted: 2, Items: 2, AtBottom: true},
		},
	}
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatReport(&buf, sampleReport(), "TEXT"))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "STEP"))
		assert.Contains(t, lines[1], "set items")
		assert.Contains(t, lines[1], "0-2")
		assert.True(t, strings.HasSuffix(lines[1], "yes"))

		buf.Reset()
		require.NoError(t, formatReport(&buf, SimulationReport{}, "text"))
		assert.Equal(t, "Nothing simulated.\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatReport(&buf, sampleReport(), "json"))
		var got SimulationReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleReport(), got)
		assert.Contains(t, buf.String(), `"bottom_spacer": 0`)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatReport(&buf, sampleReport(), "yaml"))
		var got SimulationReport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleReport(), got)
	})

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()
		require.Error(t, formatReport(&bytes.Buffer{}, sampleReport(), "xml"))
	})
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, float64(100), parseValue("100"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "hello", parseValue("hello"))
	assert.Equal(t, map[string]any{"a": float64(1)}, parseValue(`{"a":1}`))
}

func TestForwardLines(t *testing.T) {
	t.Parallel()

	lines := make(chan follow.Line, 2)
	lines <- follow.Line{N: 1, Text: "first"}
	lines <- follow.Line{N: 2, Text: `{"level":"ERROR","msg":"boom"}`}
	close(lines)

	out := make(chan tui.Entry, 2)
	forwardLines(t.Context(), lines, out)

	var got []tui.Entry
	for e := range out {
		got = append(got, e)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "line-1", got[0].ID)
	assert.Equal(t, "first", got[0].Text)
	assert.Equal(t, "line-2", got[1].Item.ID)
	assert.Equal(t, "boom", got[1].Text)
}

// run executes the root command with args inside a fresh working directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	t.Run("simulate", func(t *testing.T) {
		out, err := run(t, "simulate", "--items", "120", "--appends", "2", "-f", "json")
		require.NoError(t, err)
		var report SimulationReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, 120, report.Simulation.Items)
		require.NotEmpty(t, report.Snapshots)
		assert.Equal(t, "virtualized", report.Snapshots[0].Mode)
		assert.Equal(t, "resize", report.Snapshots[len(report.Snapshots)-1].Action)
	})

	t.Run("config set and get", func(t *testing.T) {
		_, err := run(t, "config", "set", "options.scroller.threshold", "120")
		require.NoError(t, err)

		// run moved to a new home, so write and read in one environment.
		t.Setenv("XDG_DATA_HOME", t.TempDir())
		rootCmd.SetArgs([]string{"config", "set", "options.tui.fps", "30"})
		require.NoError(t, rootCmd.Execute())

		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"config", "get", "options.tui.fps"})
		require.NoError(t, rootCmd.Execute())
		assert.Equal(t, "30\n", buf.String())

		rootCmd.SetArgs([]string{"config", "get", "options.tui.gap"})
		require.Error(t, rootCmd.Execute())
	})

	t.Run("dirs", func(t *testing.T) {
		out, err := run(t, "dirs", "--data")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out), filepath.Join("data", "vscroll")))
	})

	t.Run("schema", func(t *testing.T) {
		out, err := run(t, "schema")
		require.NoError(t, err)
		assert.Contains(t, out, "estimated_height")
	})
}
