package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	uptime := (time.Duration(status.UptimeSeconds) * time.Second).String()
	fmt.Printf("mirrarr v%s | Server: %s\n\n", status.Version, serverURL)
	fmt.Printf("  %-12s %s\n", "Uptime:", uptime)
	fmt.Printf("  %-12s %d\n", "Sources:", status.Sources)
	fmt.Printf("  %-12s %d (%d active)\n", "Downloads:", status.Downloads, status.Active)
	return nil
}
