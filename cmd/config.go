package cmd

import (
	"fmt"

	"github.com/brogergvhs/tocpdf/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the export settings after flags are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		label, _ := config.CurrentLabel()
		if label == "" || flagIgnoreConfig {
			label = "(none)"
		}
		_, _ = fmt.Fprintf(out, "Profile: %s\nSource:  %s\n\n", label, used)
		cfg.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
