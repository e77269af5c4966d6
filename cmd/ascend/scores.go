package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/life423/Ascend-Avoid-sub000/internal/storage"
)

var flagShowRaces bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top 10 high scores, and optionally recent race results.

Examples:
  ascend scores
  ascend scores --races`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagShowRaces, "races", false, "Also show recent online race results")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores("ascend", 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("High Scores - Ascend")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ascend play' to set the first high score!")
	} else {
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Crossings", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "---------", "----")

		for i, entry := range scores {
			dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
		}

		fmt.Println()
		if stats, statsErr := store.GetGameStats("ascend"); statsErr == nil {
			fmt.Printf("Best: %d  |  Runs: %d  |  Average: %.1f\n",
				stats.HighScore, stats.GamesCount, stats.AvgScore)
		}
	}

	if !flagShowRaces {
		return
	}

	races, err := store.RecentRaces(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving races: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Recent Races")
	fmt.Println()

	if len(races) == 0 {
		fmt.Println("No races recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-7s  %-22s  %s\n", "Winner", "Score", "Reason", "Date")
	fmt.Printf("  %-16s  %-7s  %-22s  %s\n", "------", "-----", "------", "----")
	for _, r := range races {
		winner := r.WinnerSession
		if winner == "" {
			winner = "(draw)"
		}
		fmt.Printf("  %-16s  %d-%-5d  %-22s  %s\n",
			winner, r.Score1, r.Score2, r.EndReason,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
