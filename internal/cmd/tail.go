package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vscroll/internal/follow"
	"github.com/charmbracelet/vscroll/internal/log"
	"github.com/charmbracelet/vscroll/internal/tui"
	"github.com/charmbracelet/vscroll/internal/tui/components/logline"
	"github.com/spf13/cobra"
)

var tailCmd = &cobra.Command{
	Use:   "tail <file>",
	Short: "Follow a file in a virtual list",
	Long:  `Show every line of a file as a list item and keep following it as it grows.`,
	Example: heredoc.Doc(`
		# Follow vscroll's own log
		vscroll tail .vscroll/logs/vscroll.log

		# Only show lines written from now on
		vscroll tail --from-end /var/log/syslog
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		noFollow, _ := cmd.Flags().GetBool("no-follow")
		fromEnd, _ := cmd.Flags().GetBool("from-end")
		poll, _ := cmd.Flags().GetBool("poll")

		path := args[0]
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		f, err := follow.Start(ctx, path, follow.Options{
			Follow:  !noFollow,
			FromEnd: fromEnd,
			Poll:    poll,
		})
		if err != nil {
			return err
		}
		defer f.Stop()

		entries := make(chan tui.Entry)
		go forwardLines(ctx, f.Lines(), entries)

		if err := runTUI(cmd, tuiOptions(cfg, tui.Options{
			Title:  filepath.Base(path),
			Source: entries,
		})); err != nil {
			return err
		}
		if err := f.Err(); err != nil {
			return fmt.Errorf("stopped following %s: %w", path, err)
		}
		return nil
	},
}

// forwardLines turns followed lines into list entries until lines closes or
// ctx is done.
func forwardLines(ctx context.Context, lines <-chan follow.Line, out chan<- tui.Entry) {
	defer log.RecoverPanic("forward-lines", nil)
	defer close(out)

	for line := range lines {
		l := logline.Parse(line.N, line.Text)
		select {
		case out <- tui.Entry{ID: l.ID(), Text: l.Text, Item: logline.Item(l)}:
		case <-ctx.Done():
			slog.Debug("Stopped forwarding lines", "last", line.N)
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().Bool("no-follow", false, "Stop at the end of the file")
	tailCmd.Flags().Bool("from-end", false, "Skip lines already in the file")
	tailCmd.Flags().Bool("poll", false, "Poll for changes instead of using file notifications")
}
