package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL   string
	jsonOutput  bool
	quietOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "mirrarr",
	Short: "CLI client for the Mirrarr download server",
	Long: `mirrarr - CLI client for the Mirrarr download server

A unified CLI for searching the catalog, aggregating download
candidates across sources, and managing the download queue.

Run 'mirrarrd' to start the server daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8787", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quietOutput, "quiet", "q", false, "Suppress confirmation messages")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mirrarr {{.Version}}\n")
}
