package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Neon portfolio site",
	Long: `Serves the portfolio page and hosts one live UI session per open
browser tab. The page streams scroll and visibility samples; the session
answers with state snapshots, terminal typing and loading progress.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yaml", "config file path")
}
