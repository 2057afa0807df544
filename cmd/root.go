package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
)

var rootCmd = &cobra.Command{
	Use:   "tocpdf",
	Short: "Export an online tutorial into a single PDF",
	Long: `tocpdf reads a tutorial's table of contents, downloads every chapter,
and renders them in order into one PDF. Without a subcommand it runs the
export described by the active config profile.`,
	Args:          cobra.NoArgs,
	RunE:          runExport,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	bindExportFlags(rootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
