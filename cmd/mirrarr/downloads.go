package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var downloadsCmd = &cobra.Command{
	Use:   "downloads",
	Short: "Show and manage downloads",
	Long: `Show and manage downloads.

Examples:
  mirrarr downloads                              # List all downloads
  mirrarr downloads --state downloading          # Filter by state
  mirrarr downloads show 3f2a9c1e                # Show detailed info
  mirrarr downloads add <url> --source vault     # Queue a direct URL`,
	RunE: runDownloadsCmd,
}

var downloadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show detailed download info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownloadsShow,
}

var downloadsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Queue a download by URL",
	Long:  "Queues a direct download. Use --filename to store the file under a custom name.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownloadsAdd,
}

// Valid download states for --state flag validation
var validStates = []string{"queued", "downloading", "processing", "retrying", "completed", "error"}

func init() {
	rootCmd.AddCommand(downloadsCmd)
	downloadsCmd.Flags().StringP("state", "s", "", "Filter by state ("+strings.Join(validStates, ", ")+")")

	downloadsAddCmd.Flags().String("source", "", "Source whose transfer options to apply")
	downloadsAddCmd.Flags().String("filename", "", "Custom filename for the completed download")
	downloadsCmd.AddCommand(downloadsShowCmd)
	downloadsCmd.AddCommand(downloadsAddCmd)
}

func runDownloadsCmd(cmd *cobra.Command, args []string) error {
	stateFilter, _ := cmd.Flags().GetString("state")

	if stateFilter != "" {
		valid := false
		for _, s := range validStates {
			if strings.EqualFold(stateFilter, s) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid state %q, valid states: %s", stateFilter, strings.Join(validStates, ", "))
		}
	}

	client := NewClient(serverURL)
	downloads, err := client.Downloads()
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if stateFilter != "" {
		filtered := make([]DownloadRecord, 0)
		for i := range downloads.Downloads {
			if strings.EqualFold(downloads.Downloads[i].Status, stateFilter) {
				filtered = append(filtered, downloads.Downloads[i])
			}
		}
		downloads.Downloads = filtered
		downloads.Total = len(filtered)
	}

	if jsonOutput {
		printJSON(downloads)
		return nil
	}

	printDownloads(downloads)
	return nil
}

func printDownloads(d *ListDownloadsResponse) {
	if len(d.Downloads) == 0 {
		fmt.Println("No downloads")
		return
	}

	fmt.Printf("Downloads (%d):\n\n", d.Total)
	fmt.Printf("  %-10s %-12s %-38s %-8s %-10s %s\n", "ID", "STATE", "FILE", "PROGRESS", "SPEED", "ETA")
	fmt.Println("  " + strings.Repeat("-", 88))

	for i := range d.Downloads {
		dl := &d.Downloads[i]
		name := dl.Filename
		if name == "" {
			name = dl.URL
		}
		progress := "-"
		if dl.Status == "completed" {
			progress = "100%"
		} else if dl.Progress > 0 {
			progress = fmt.Sprintf("%.1f%%", dl.Progress)
		}
		speed := "-"
		if dl.SpeedBPS > 0 {
			speed = formatSpeed(dl.SpeedBPS)
		}
		eta := dl.ETA
		if eta == "" {
			eta = "-"
		}
		fmt.Printf("  %-10s %-12s %-38s %-8s %-10s %s\n",
			shortID(dl.ID), dl.Status, truncate(name, 38), progress, speed, eta)
	}
}

func runDownloadsShow(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	dl, err := client.Download(args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch download: %w", err)
	}

	if jsonOutput {
		printJSON(dl)
		return nil
	}

	fmt.Printf("Download %s\n\n", dl.ID)
	fmt.Printf("  %-12s %s\n", "URL:", dl.URL)
	if dl.Source != "" {
		fmt.Printf("  %-12s %s\n", "Source:", dl.Source)
	}
	fmt.Printf("  %-12s %s\n", "Status:", dl.Status)
	if dl.Filename != "" {
		fmt.Printf("  %-12s %s\n", "Filename:", dl.Filename)
	}
	if dl.Path != "" {
		fmt.Printf("  %-12s %s\n", "Path:", dl.Path)
	}
	if dl.Size != "" && dl.Size != "0 B" {
		fmt.Printf("  %-12s %s\n", "Size:", dl.Size)
	}
	fmt.Printf("  %-12s %d\n", "Attempt:", dl.Attempt)
	if dl.NextRetryAt != nil {
		fmt.Printf("  %-12s %s\n", "Next retry:", *dl.NextRetryAt)
	}
	if dl.Error != "" {
		fmt.Printf("  %-12s %s\n", "Error:", dl.Error)
	}
	fmt.Printf("  %-12s %s\n", "Added:", dl.AddedAt)

	// Fetch and display events
	events, err := client.DownloadEvents(dl.ID)
	if err == nil && len(events.Items) > 0 {
		fmt.Printf("\n  Event History:\n")
		for _, e := range events.Items {
			t, _ := time.Parse(time.RFC3339, e.OccurredAt)
			fmt.Printf("    %s  %s\n", t.Format("15:04:05"), e.EventType)
		}
	}

	return nil
}

func runDownloadsAdd(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("source")
	filename, _ := cmd.Flags().GetString("filename")

	client := NewClient(serverURL)
	rec, err := client.SubmitDownload(&SubmitDownloadRequest{
		URL:      args[0],
		Source:   src,
		Filename: filename,
	})
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}

	if jsonOutput {
		printJSON(rec)
		return nil
	}
	if !quietOutput {
		fmt.Printf("Download queued: %s\n", rec.ID)
		fmt.Println("Use 'mirrarr downloads' to monitor progress")
	}
	return nil
}
