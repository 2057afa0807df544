package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/tocpdf/internal/config"

	"github.com/spf13/cobra"
)

var configResetCmd = &cobra.Command{
	Use:   "reset [label]",
	Short: "Restore a profile (the active one by default) to the default export",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resetTarget(args)
		if err != nil {
			return err
		}

		if err := config.SaveYAML(config.DefaultConfig(), path); err != nil {
			return fmt.Errorf("reset %s: %w", path, err)
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile restored: %s\n", path)
		return nil
	},
}

// resetTarget only accepts labels that already have a profile file.
func resetTarget(args []string) (string, error) {
	if len(args) == 0 {
		return config.ActiveConfigPath()
	}

	path := config.ConfigPath(args[0])
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no profile %q: %w", args[0], err)
	}

	return path, nil
}

func init() {
	configCmd.AddCommand(configResetCmd)
}
