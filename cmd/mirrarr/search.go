package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <query>...",
	Short: "Search the catalog for movies and series",
	Long: `Search the catalog for movies and series.

Examples:
  mirrarr search "The Matrix"
  mirrarr search --type series "Breaking Bad"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("type", "", "Media type (movie or series)")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	mediaType, _ := cmd.Flags().GetString("type")

	if mediaType != "" && mediaType != "movie" && mediaType != "series" {
		return fmt.Errorf("invalid type %q, must be movie or series", mediaType)
	}

	client := NewClient(serverURL)
	results, err := client.SearchCatalog(query, mediaType)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(results)
		return nil
	}

	if len(results.Results) == 0 {
		fmt.Println("No results found")
		return nil
	}

	fmt.Printf("Found %d results for %q:\n\n", results.Total, query)
	fmt.Printf("  %-10s %-8s %-46s %-6s %s\n", "ID", "TYPE", "TITLE", "YEAR", "RATING")
	fmt.Println("  " + strings.Repeat("-", 80))

	for _, item := range results.Results {
		year := item.ReleaseYear
		if year == "" {
			year = "-"
		}
		rating := "-"
		if item.VoteAverage > 0 {
			rating = fmt.Sprintf("%.1f", item.VoteAverage)
		}
		fmt.Printf("  %-10d %-8s %-46s %-6s %s\n",
			item.ID, item.MediaType, truncate(item.Title, 46), year, rating)
	}

	fmt.Println("\nUse 'mirrarr results movie <id>' to find download candidates")
	return nil
}
