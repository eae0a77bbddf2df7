package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered sources",
	RunE:  runSourcesCmd,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	sources, err := client.Sources()
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if jsonOutput {
		printJSON(sources)
		return nil
	}

	if len(sources.Sources) == 0 {
		fmt.Println("No sources configured")
		return nil
	}

	fmt.Printf("Sources (%d):\n", sources.Total)
	for _, src := range sources.Sources {
		marker := ""
		if src.Preferred {
			marker = "  (preferred)"
		}
		fmt.Printf("  %s%s\n", src.Name, marker)
	}
	return nil
}
