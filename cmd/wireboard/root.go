package main

import (
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagLogLevel   string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wireboard",
		Short: "Collaborative whiteboard relay and board client",
		Long: "wireboard runs the room relay and HTTP API for a shared canvas,\n" +
			"and ships a headless board client for smoke-testing rooms.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(clientCmd())

	return cmd
}
