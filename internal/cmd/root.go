package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/vscroll/internal/config"
	"github.com/charmbracelet/vscroll/internal/tui"
	"github.com/charmbracelet/vscroll/internal/tui/components/message"
	"github.com/charmbracelet/vscroll/internal/version"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().IntP("messages", "n", 500, "Number of generated messages")
	rootCmd.Flags().Uint64("seed", 1, "Seed for the generated conversation")
	rootCmd.Flags().Bool("markdown", false, "Render message bodies as markdown")
}

var rootCmd = &cobra.Command{
	Use:   "vscroll",
	Short: "Scroll through very long lists in the terminal",
	Long: heredoc.Doc(`
		vscroll renders long lists of variable height items by mounting only
		the items near the viewport. Above a configurable item count the list
		switches from rendering everything to a virtualized window bounded by
		spacers sized from measured and estimated item heights.
	`),
	Example: heredoc.Doc(`
		# Browse a generated conversation
		vscroll

		# A larger conversation rendered as markdown
		vscroll -n 10000 --markdown

		# Follow a log file
		vscroll tail ./app.log
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("messages")
		seed, _ := cmd.Flags().GetUint64("seed")
		markdown, _ := cmd.Flags().GetBool("markdown")
		markdown = markdown || cfg.Options.TUI.Markdown
		if n < 0 {
			return fmt.Errorf("invalid message count %d", n)
		}

		gen := message.NewGenerator(seed)
		msgs := gen.Messages(n)
		entries := make([]tui.Entry, 0, len(msgs))
		for _, msg := range msgs {
			entries = append(entries, tui.Entry{
				ID:   msg.ID,
				Text: msg.Body,
				Item: message.Item(msg, markdown),
			})
		}
		slog.Info("Starting conversation demo", "messages", n, "seed", seed)

		return runTUI(cmd, tuiOptions(cfg, tui.Options{
			Title:     "conversation",
			Markdown:  markdown,
			Entries:   entries,
			Generator: gen,
		}))
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setupConfig resolves the working directory and loads the configuration.
func setupConfig(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	return config.Load(cwd, debug)
}

// tuiOptions fills the configured list settings into opts.
func tuiOptions(cfg *config.Config, opts tui.Options) tui.Options {
	opts.StickToBottom = cfg.Options.TUI.StickToBottom
	opts.FPS = cfg.Options.TUI.FPS
	opts.Gap = *cfg.Options.TUI.Gap
	opts.Scroller = cfg.EngineOptions()
	return opts
}

func runTUI(cmd *cobra.Command, opts tui.Options) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("vscroll needs an interactive terminal, try `vscroll simulate` instead")
	}

	program := tea.NewProgram(
		tui.New(opts),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithMouseCellMotion(), // Use cell motion instead of all motion to reduce event flooding
	)
	if _, err := program.Run(); err != nil {
		slog.Error("TUI run error", "error", err)
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
