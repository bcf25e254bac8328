package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write persisted settings",
	Long:  `Read and write settings stored in the data config file. Keys use dotted paths.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a persisted setting",
	Example: heredoc.Doc(`
		vscroll config get options.scroller.threshold
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		raw, ok, err := cfg.GetConfigField(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), raw)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting",
	Long:  `Persist a setting. Values are parsed as JSON and stored as strings when they are not valid JSON.`,
	Example: heredoc.Doc(`
		vscroll config set options.scroller.threshold 100
		vscroll config set options.tui.markdown true
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		return cfg.SetConfigField(args[0], parseValue(args[1]))
	},
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
