package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vscroll/internal/virtual/headless"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SimulationReport is what the simulate command prints.
type SimulationReport struct {
	Simulation headless.Simulation `json:"simulation" yaml:"simulation"`
	Snapshots  []headless.Snapshot `json:"snapshots" yaml:"snapshots"`
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the scroller against an in-memory container",
	Long: heredoc.Doc(`
		Load generated items of random height into an in-memory container,
		scroll through them, append while following the bottom, jump back to
		the middle and halve the viewport. The mode, window and spacers are
		printed after each action.
	`),
	Example: heredoc.Doc(`
		# Simulate 1000 items
		vscroll simulate --items 1000

		# Machine readable output
		vscroll simulate -f json
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		var sim headless.Simulation
		sim.Items, _ = flags.GetInt("items")
		sim.Viewport, _ = flags.GetFloat64("viewport")
		sim.MinHeight, _ = flags.GetFloat64("min-height")
		sim.MaxHeight, _ = flags.GetFloat64("max-height")
		sim.Step, _ = flags.GetFloat64("step")
		sim.Appends, _ = flags.GetInt("appends")
		sim.Seed, _ = flags.GetUint64("seed")
		format, _ := flags.GetString("format")

		shots, err := headless.Simulate(sim, cfg.EngineOptions()...)
		if err != nil {
			return fmt.Errorf("failed to simulate: %w", err)
		}
		return formatReport(cmd.OutOrStdout(), SimulationReport{Simulation: sim, Snapshots: shots}, format)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("items", 500, "Number of items")
	simulateCmd.Flags().Float64("viewport", 40, "Viewport size")
	simulateCmd.Flags().Float64("min-height", 1, "Smallest item height")
	simulateCmd.Flags().Float64("max-height", 8, "Largest item height")
	simulateCmd.Flags().Float64("step", 30, "Distance scrolled per step")
	simulateCmd.Flags().Int("appends", 5, "Items appended at the bottom")
	simulateCmd.Flags().Uint64("seed", 1, "Seed for item heights")
	simulateCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
}

func formatReport(w io.Writer, report SimulationReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return formatJSON(w, report)
	case "yaml":
		return formatYAML(w, report)
	case "text":
		return formatText(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func formatYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Fprint(w, string(data))
	return nil
}

func formatText(w io.Writer, report SimulationReport) error {
	if len(report.Snapshots) == 0 {
		fmt.Fprintln(w, "Nothing simulated.")
		return nil
	}

	fmt.Fprintf(w, "%-4s %-15s %-11s %9s %9s %11s %9s %9s %5s\n",
		"STEP", "ACTION", "MODE", "OFFSET", "EXTENT", "WINDOW", "TOP", "BOTTOM", "END")
	for _, s := range report.Snapshots {
		bottom := ""
		if s.AtBottom {
			bottom = "yes"
		}
		fmt.Fprintf(w, "%-4d %-15s %-11s %9.0f %9.0f %11s %9.0f %9.0f %5s\n",
			s.Step, s.Action, s.Mode, s.Offset, s.Extent,
			fmt.Sprintf("%d-%d", s.Start, s.End), s.Top, s.Bottom, bottom)
	}
	return nil
}
