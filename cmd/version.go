package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set with -ldflags "-X github.com/brogergvhs/tocpdf/cmd.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the tocpdf version",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionLine())
	},
}

func versionLine() string {
	line := "tocpdf " + Version
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return line
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			line += " (" + s.Value[:7] + ")"
		}
	}

	return line + " " + info.GoVersion
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
