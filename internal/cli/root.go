// Package cli defines the command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nodech/sway-matiane/internal/buildinfo"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           buildinfo.Name,
	Short:         "Per-user activity logger for sway",
	Long:          "sway-matiane subscribes to sway window events, watches idle and\nlock transitions, and appends them to a date-rotated journal.",
	Version:       buildinfo.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "sets a custom config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "level", "l", "info", "sets a log level (trace, debug, info, warn, error)")
}
