package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Find download candidates across sources",
	Long: `Find download candidates across sources.

Examples:
  mirrarr results movie 603                        # All candidates for a movie
  mirrarr results movie 603 --source vault         # Candidates from one source
  mirrarr results movie 603 --best                 # Best candidate per policy
  mirrarr results movie 603 --best --grab          # Grab the best candidate
  mirrarr results series 1396 -s 2 -e 5            # Candidates for an episode`,
}

var resultsMovieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Download candidates for a movie",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsMovie,
}

var resultsSeriesCmd = &cobra.Command{
	Use:   "series <id>",
	Short: "Download candidates for an episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runResultsSeries,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsMovieCmd)
	resultsCmd.AddCommand(resultsSeriesCmd)

	for _, cmd := range []*cobra.Command{resultsMovieCmd, resultsSeriesCmd} {
		cmd.Flags().String("source", "", "Query a single source")
		cmd.Flags().Bool("best", false, "Show only the best candidate per ranking policy")
		cmd.Flags().Bool("grab", false, "Submit the best candidate for download (implies --best)")
	}
	resultsSeriesCmd.Flags().IntP("season", "s", -1, "Season number")
	resultsSeriesCmd.Flags().IntP("episode", "e", -1, "Episode number")
}

func runResultsMovie(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	src, _ := cmd.Flags().GetString("source")
	best, _ := cmd.Flags().GetBool("best")
	grab, _ := cmd.Flags().GetBool("grab")

	client := NewClient(serverURL)

	if best || grab {
		item, err := client.MovieBest(id)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		return printOrGrab(client, item, grab)
	}

	results, err := client.MovieResults(id, src)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	printResults(results)
	return nil
}

func runResultsSeries(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	season, _ := cmd.Flags().GetInt("season")
	episode, _ := cmd.Flags().GetInt("episode")
	if season < 0 || episode < 0 {
		return fmt.Errorf("--season and --episode are required")
	}

	src, _ := cmd.Flags().GetString("source")
	best, _ := cmd.Flags().GetBool("best")
	grab, _ := cmd.Flags().GetBool("grab")

	client := NewClient(serverURL)

	if best || grab {
		item, err := client.EpisodeBest(id, season, episode)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		return printOrGrab(client, item, grab)
	}

	results, err := client.EpisodeResults(id, season, episode, src)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	printResults(results)
	return nil
}

func printResults(r *ResultsResponse) {
	if jsonOutput {
		printJSON(r)
		return
	}

	if len(r.Results) == 0 {
		fmt.Println("No candidates found")
		return
	}

	fmt.Printf("Found %d candidates:\n\n", r.Total)
	fmt.Printf("  %-10s %-44s %-16s %s\n", "SOURCE", "TITLE", "QUALITY", "SIZE")
	fmt.Println("  " + strings.Repeat("-", 82))

	for _, item := range r.Results {
		fmt.Printf("  %-10s %-44s %-16s %s\n",
			item.SourceID, truncate(item.Title, 44),
			truncate(item.Quality, 16), formatSize(item.SizeBytes))
	}
}

func printOrGrab(client *Client, item *ResultItem, grab bool) error {
	if !grab {
		if jsonOutput {
			printJSON(item)
			return nil
		}
		fmt.Printf("Best candidate:\n\n")
		fmt.Printf("  %-10s %s\n", "Source:", item.SourceID)
		fmt.Printf("  %-10s %s\n", "Title:", item.Title)
		fmt.Printf("  %-10s %s\n", "Quality:", item.Quality)
		fmt.Printf("  %-10s %s\n", "Size:", formatSize(item.SizeBytes))
		fmt.Printf("  %-10s %s\n", "URL:", item.DownloadURL)
		return nil
	}

	rec, err := client.SubmitDownload(&SubmitDownloadRequest{
		URL:    item.DownloadURL,
		Source: item.SourceID,
	})
	if err != nil {
		return fmt.Errorf("grab failed: %w", err)
	}

	if jsonOutput {
		printJSON(rec)
		return nil
	}
	if !quietOutput {
		fmt.Printf("Download queued: %s (%s)\n", item.Title, shortID(rec.ID))
		fmt.Println("Use 'mirrarr downloads' to monitor progress")
	}
	return nil
}
