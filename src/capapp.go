package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "capapp",
		Short: "Discord bot that fact-checks claims against published reviews",
		Long: `CapApp watches selected participants in selected channels, checks what they
say against the Google Fact Check Tools database (falling back to Perplexity),
and alerts moderators about false or misleading claims.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML settings file (default: settings table when MYSQL_DSN is set, else environment only)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, registerCommandsCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
